package http

import (
	"net/http"

	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/httpx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

type ResetRequestHandler struct {
	ResetService *service.PasswordResetService

	// DebugCodes echoes the issued code in the response body. Dev only;
	// production delivery goes through the mail sender.
	DebugCodes bool
}

// ServeHTTP godoc
//
//	@Summary		Request Password Reset Endpoint
//	@Description	Issue a six digit reset code for the email and send it out
//	@Description	The response is identical whether or not an account exists
//	@Tags			PasswordReset
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ResetRequestRequest		true	"Account email"
//	@Success		200		{object}	authsdk.ResetRequestResponse	"success, message"
//	@Failure		400		{object}	authsdk.APIError				"code, message"
//	@Failure		500		{object}	authsdk.APIError				"code, message"
//	@Router			/v1/auth/password-reset/request [post].
func (h *ResetRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ResetRequestRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadJSON(w)
		return
	}
	if apiErr := authsdk.ValidateEmail(req.Email); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	code, err := h.ResetService.Request(ctx, req.Email)
	if err != nil {
		log.Error("password reset request failed", "err", err)
		writeError(w, authsdk.ErrInternal)
		return
	}

	resp := authsdk.ResetRequestResponse{
		Success: true,
		Message: service.ResetRequestMessage,
	}
	if h.DebugCodes {
		resp.DebugCode = code
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
