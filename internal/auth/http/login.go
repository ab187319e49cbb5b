package http

import (
	"errors"
	"net/http"

	"github.com/daykeephq/daykeep/internal/auth/domain"
	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/httpx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// toAPIUser strips the public view of an account out of the domain row.
func toAPIUser(u domain.User) authsdk.User {
	return authsdk.User{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// ServeHTTP godoc
//
//	@Summary		Log In Endpoint
//	@Description	Authenticate an email/password pair and return the user with a fresh session token
//	@Description	Unknown email and wrong password produce the identical 401 response
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest	true	"Email and password"
//	@Success		200		{object}	authsdk.AuthResponse	"user, token"
//	@Failure		400		{object}	authsdk.APIError		"code, message"
//	@Failure		401		{object}	authsdk.APIError		"code, message"
//	@Failure		500		{object}	authsdk.APIError		"code, message"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	if apiErr := authsdk.ValidateEmail(req.Email); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if req.Password == "" {
		writeError(w, authsdk.ValidationError("Password is required"))
		return
	}

	user, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, authsdk.ErrInvalidCredentials)
			return
		}
		log.Error("login failed", "err", err)
		writeError(w, authsdk.ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthResponse{
		User:  toAPIUser(user),
		Token: token,
	})
}
