package http

import (
	"errors"
	"net/http"

	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/httpx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

type SignupHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Sign Up Endpoint
//	@Description	Create a new account and return the user with a session token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.SignupRequest	true	"Email and password"
//	@Success		201		{object}	authsdk.AuthResponse	"user, token"
//	@Failure		400		{object}	authsdk.APIError		"code, message"
//	@Failure		409		{object}	authsdk.APIError		"code, message"
//	@Failure		500		{object}	authsdk.APIError		"code, message"
//	@Router			/v1/auth/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.SignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	if apiErr := authsdk.ValidateEmail(req.Email); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if apiErr := authsdk.ValidateNewPassword(req.Password); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	user, token, err := h.AuthService.Signup(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, authsdk.ErrEmailTaken)
			return
		}
		log.Error("signup failed", "err", err)
		writeError(w, authsdk.ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.AuthResponse{
		User:  toAPIUser(user),
		Token: token,
	})
}
