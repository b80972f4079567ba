package email

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogSender writes login codes to the log instead of sending them.
// Only meant for local development.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a Sender that only logs
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendOTPEmail logs the code
func (s *LogSender) SendOTPEmail(_ context.Context, toEmail, code string, ttl time.Duration) error {
	s.logger.Warn().
		Str("toEmail", toEmail).
		Str("otp", code).
		Dur("ttl", ttl).
		Msg("Email provider is 'log' - OTP email not sent. Use the code above for testing.")
	return nil
}
