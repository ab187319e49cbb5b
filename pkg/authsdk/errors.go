package authsdk

import (
	"fmt"
	"net/http"
)

// Error codes returned by the service.
const (
	ErrorCodeValidation   = "VALIDATION_ERROR"
	ErrorCodeConflict     = "CONFLICT"
	ErrorCodeUnauthorized = "UNAUTHORIZED"
	ErrorCodeBadRequest   = "BAD_REQUEST"
	ErrorCodeInternal     = "INTERNAL_SERVER_ERROR"
)

// APIError is the wire shape for every error the service returns. It
// implements the error interface so the SDK client can surface it
// directly.
type APIError struct {
	// StatusCode is the HTTP status for this error. Not serialized.
	StatusCode int `json:"-"`

	// Code is the stable machine-readable error code.
	Code string `json:"code"`

	// Message is safe to show to the end user. Internal failures always
	// carry a generic message; details stay in the server log.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Predefined errors for the common cases. Handlers clone these when they
// need a different message.
var (
	ErrEmailTaken = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeConflict,
		Message:    "An account with this email already exists",
	}

	// ErrInvalidCredentials is deliberately identical for unknown email
	// and wrong password so responses don't reveal which emails are
	// registered.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "Invalid email or password",
	}

	ErrInvalidResetCode = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeBadRequest,
		Message:    "Invalid or expired reset code",
	}

	ErrInternal = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeInternal,
		Message:    "Something went wrong, please try again",
	}
)

// ValidationError builds a VALIDATION_ERROR with a field-specific message.
func ValidationError(message string) *APIError {
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeValidation,
		Message:    message,
	}
}
