package http

import (
	"net/http"

	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/httpx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

type DeleteAccountHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Delete Account Endpoint
//	@Description	Permanently delete the authenticated user's account
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.DeleteAccountResponse	"success"
//	@Failure		401	{object}	authsdk.APIError				"code, message"
//	@Failure		500	{object}	authsdk.APIError				"code, message"
//	@Router			/v1/auth/account [delete].
func (h *DeleteAccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// AuthnMiddleware already verified the token and stashed the subject.
	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, &authsdk.APIError{
			StatusCode: http.StatusUnauthorized,
			Code:       authsdk.ErrorCodeUnauthorized,
			Message:    "Authentication required",
		})
		return
	}

	if err := h.AuthService.DeleteAccount(ctx, userID); err != nil {
		log.Error("account deletion failed", "err", err)
		writeError(w, authsdk.ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.DeleteAccountResponse{Success: true})
}
