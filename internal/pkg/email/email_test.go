package email

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOTPMessage(t *testing.T) {
	msg := RenderOTPMessage("123456", 10*time.Minute)

	assert.Equal(t, "Your Login OTP for VIT Book Exchange", msg.Subject)
	assert.Contains(t, msg.PlainText, "123456")
	assert.Contains(t, msg.PlainText, "10 minutes")
	assert.Contains(t, msg.HTML, "<b>123456</b>")
}

func TestBuildOTPMail(t *testing.T) {
	from := From{Name: "VIT Book Exchange", Address: "no-reply@example.com"}
	m := buildOTPMail(from, "john.doe2022@vitstudent.ac.in", "654321", 10*time.Minute)

	var payload struct {
		From struct {
			Email string `json:"email"`
		} `json:"from"`
		Subject          string `json:"subject"`
		Personalizations []struct {
			To []struct {
				Email string `json:"email"`
			} `json:"to"`
		} `json:"personalizations"`
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(mail.GetRequestBody(m), &payload))

	assert.Equal(t, "no-reply@example.com", payload.From.Email)
	require.Len(t, payload.Personalizations, 1)
	assert.Equal(t, "john.doe2022@vitstudent.ac.in", payload.Personalizations[0].To[0].Email)
	require.Len(t, payload.Content, 2)
	assert.Contains(t, payload.Content[0].Value, "654321")
}

func TestBuildMIMEMessage(t *testing.T) {
	raw := string(buildMIMEMessage(From{Name: "Books", Address: "a@b.c"}.String(), "x@y.z", "Hi", "<p>body</p>"))

	assert.Contains(t, raw, "From: Books <a@b.c>\r\n")
	assert.Contains(t, raw, "To: x@y.z\r\n")
	assert.Contains(t, raw, "\r\n\r\n<p>body</p>")
}

func TestLogSenderLogsCode(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(zerolog.New(&buf))

	require.NoError(t, sender.SendOTPEmail(context.Background(), "a@vitstudent.ac.in", "111222", time.Minute))
	assert.Contains(t, buf.String(), "111222")
}
