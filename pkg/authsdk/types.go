// Package authsdk holds the request/response types for the Daykeep auth
// service plus a small HTTP client. The mobile app's auth context is the
// primary consumer; the server handlers share the same types so the two
// sides cannot drift.
package authsdk

import "time"

// User is the public view of an account. The password hash never leaves
// the server.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both signup and login.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyTokenResponse never reports why verification failed; callers
// branch on Valid only.
type VerifyTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

type DeleteAccountResponse struct {
	Success bool `json:"success"`
}

type ResetRequestRequest struct {
	Email string `json:"email"`
}

// ResetRequestResponse carries the same success message whether or not
// the account exists. DebugCode is only populated when the server runs in
// the dev environment; production delivery goes through the mail sender.
type ResetRequestResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	DebugCode string `json:"debug_code,omitempty"`
}

type ResetVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResetVerifyResponse struct {
	Valid bool `json:"valid"`
}

type ResetCompleteRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ResetCompleteResponse reports success even when the post-reset user
// lookup fails; User and Token are then simply absent and the client logs
// in manually.
type ResetCompleteResponse struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

// HealthResponse is returned by the livez/readyz endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`
}
