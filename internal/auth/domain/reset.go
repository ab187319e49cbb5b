package domain

import "time"

// PasswordResetRequest is a single-use six-digit code bound to an email.
// At most one unused request exists per email at a time; issuing a new one
// removes any earlier unused rows.
type PasswordResetRequest struct {
	ID        string
	Email     string
	Code      string // 6 ASCII digits
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Usable reports whether the request can still redeem a password reset at
// the given instant.
func (r PasswordResetRequest) Usable(now time.Time) bool {
	return !r.Used && now.Before(r.ExpiresAt)
}
