package models

import "time"

// OTPChallenge is a pending one-time password for an email, based on the 'otp' table
type OTPChallenge struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	OTPHash   string    `db:"otp_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// IsExpired reports whether the challenge can no longer be verified at now
func (c *OTPChallenge) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
