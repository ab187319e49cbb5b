package http

import (
	"errors"
	"net/http"

	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/httpx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

type ResetCompleteHandler struct {
	ResetService *service.PasswordResetService
}

// ServeHTTP godoc
//
//	@Summary		Complete Password Reset Endpoint
//	@Description	Redeem a reset code and install the new password
//	@Description	On success the response carries the user and a fresh session token when available
//	@Tags			PasswordReset
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ResetCompleteRequest	true	"Email, code and new password"
//	@Success		200		{object}	authsdk.ResetCompleteResponse	"success, user, token"
//	@Failure		400		{object}	authsdk.APIError				"code, message"
//	@Failure		500		{object}	authsdk.APIError				"code, message"
//	@Router			/v1/auth/password-reset/complete [post].
func (h *ResetCompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ResetCompleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadJSON(w)
		return
	}
	if apiErr := authsdk.ValidateEmail(req.Email); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if apiErr := authsdk.ValidateResetCode(req.Code); apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if apiErr := authsdk.ValidateNewPassword(req.NewPassword); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	user, token, err := h.ResetService.Reset(ctx, req.Email, req.Code, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidResetCode) {
			writeError(w, authsdk.ErrInvalidResetCode)
			return
		}
		log.Error("password reset failed", "err", err)
		writeError(w, authsdk.ErrInternal)
		return
	}

	resp := authsdk.ResetCompleteResponse{Success: true, Token: token}
	if user != nil {
		u := toAPIUser(*user)
		resp.User = &u
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
