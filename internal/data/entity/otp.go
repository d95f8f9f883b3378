package entity

import (
	"time"

	"github.com/google/uuid"
)

type OTPType string

const (
	OTPTypeEmailVerification OTPType = "email_verification"
	OTPTypePasswordReset     OTPType = "password_reset"
)

// Purpose is the human label used in OTP mails.
func (t OTPType) Purpose() string {
	if t == OTPTypePasswordReset {
		return "password reset"
	}
	return "email verification"
}

// OTP is a single-use code mailed to a user. Issuing a new code for the same
// email and type invalidates the pending ones.
type OTP struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Email     string    `db:"email"`
	OTPCode   string    `db:"otp_code"`
	OTPType   OTPType   `db:"otp_type"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}

func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
