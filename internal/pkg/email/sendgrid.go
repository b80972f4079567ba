package email

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender sends mail through the SendGrid v3 API
type SendGridSender struct {
	client *sendgrid.Client
	from   From
	logger zerolog.Logger
}

// NewSendGridSender creates a SendGrid backed Sender
func NewSendGridSender(apiKey string, from From, logger zerolog.Logger) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		logger: logger,
	}
}

// buildOTPMail converts the rendered OTP email into a SendGrid payload
func buildOTPMail(from From, toEmail, code string, ttl time.Duration) *mail.SGMailV3 {
	msg := RenderOTPMessage(code, ttl)
	return mail.NewSingleEmail(
		mail.NewEmail(from.Name, from.Address),
		msg.Subject,
		mail.NewEmail("", toEmail),
		msg.PlainText,
		msg.HTML,
	)
}

// SendOTPEmail sends the login code to toEmail
func (s *SendGridSender) SendOTPEmail(ctx context.Context, toEmail, code string, ttl time.Duration) error {
	resp, err := s.client.SendWithContext(ctx, buildOTPMail(s.from, toEmail, code, ttl))
	if err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("SendGrid request failed")
		return fmt.Errorf("failed to send email: %w", err)
	}

	if resp.StatusCode >= 300 {
		s.logger.Error().Int("status", resp.StatusCode).Str("body", resp.Body).Msg("SendGrid rejected message")
		return fmt.Errorf("failed to send email: sendgrid returned status %d", resp.StatusCode)
	}

	return nil
}
