package authsdk

import (
	"regexp"
	"strings"
)

// Input limits enforced before any handler logic runs.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	ResetCodeLength   = 6
)

// Deliberately loose: one @, something either side, a dot in the domain.
// Real validation is the delivery of the reset email.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail lowercases and trims an email the same way on client and
// server, so "A@X.com " and "a@x.com" are the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the normalized form of email.
func ValidateEmail(email string) *APIError {
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		return ValidationError("A valid email address is required")
	}
	return nil
}

// ValidateNewPassword enforces the signup/reset password policy.
func ValidateNewPassword(password string) *APIError {
	if len(password) < MinPasswordLength {
		return ValidationError("Password must be at least 8 characters")
	}
	if len(password) > MaxPasswordLength {
		return ValidationError("Password must be at most 128 characters")
	}
	return nil
}

// ValidateResetCode checks the shape of a reset code: exactly six
// characters. Digit-ness is left to the lookup; a non-digit code simply
// never matches.
func ValidateResetCode(code string) *APIError {
	if len(code) != ResetCodeLength {
		return ValidationError("Reset code must be 6 digits")
	}
	return nil
}
