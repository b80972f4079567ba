package email

import (
	"context"
	"fmt"
	"time"
)

// Sender delivers one-time login codes to users
type Sender interface {
	SendOTPEmail(ctx context.Context, toEmail, code string, ttl time.Duration) error
}

// Message is a rendered email ready for delivery
type Message struct {
	Subject   string
	PlainText string
	HTML      string
}

// From identifies the sender of outgoing mail
type From struct {
	Name    string
	Address string
}

func (f From) String() string {
	if f.Name == "" {
		return f.Address
	}
	return fmt.Sprintf("%s <%s>", f.Name, f.Address)
}

// RenderOTPMessage builds the login code email
func RenderOTPMessage(code string, ttl time.Duration) Message {
	minutes := int(ttl.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	return Message{
		Subject:   "Your Login OTP for VIT Book Exchange",
		PlainText: fmt.Sprintf("Your One-Time Password is: %s\nIt is valid for %d minutes.", code, minutes),
		HTML: fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>Your One-Time Password is: <b>%s</b></p>
				<p>It is valid for %d minutes.</p>
				<p>If you did not try to sign in, you can ignore this email.</p>
			</div>
		</body>
		</html>
	`, code, minutes),
	}
}
