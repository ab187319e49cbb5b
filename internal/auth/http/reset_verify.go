package http

import (
	"errors"
	"net/http"

	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/httpx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

type ResetVerifyHandler struct {
	ResetService *service.PasswordResetService
}

// ServeHTTP godoc
//
//	@Summary		Verify Reset Code Endpoint
//	@Description	Report whether a reset code is currently redeemable for the email
//	@Description	Does not consume the code; an unknown, used or expired code is a 400
//	@Tags			PasswordReset
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ResetVerifyRequest	true	"Email and code"
//	@Success		200		{object}	authsdk.ResetVerifyResponse	"valid"
//	@Failure		400		{object}	authsdk.APIError			"code, message"
//	@Failure		500		{object}	authsdk.APIError			"code, message"
//	@Router			/v1/auth/password-reset/verify [post].
func (h *ResetVerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ResetVerifyRequest
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

	if err := h.ResetService.VerifyCode(ctx, req.Email, req.Code); err != nil {
		if errors.Is(err, service.ErrInvalidResetCode) {
			writeError(w, authsdk.ErrInvalidResetCode)
			return
		}
		log.Error("reset code verification failed", "err", err)
		writeError(w, authsdk.ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ResetVerifyResponse{Valid: true})
}
