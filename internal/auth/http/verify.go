package http

import (
	"net/http"

	"github.com/daykeephq/daykeep/internal/auth/service"
	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/httpx"
	"github.com/daykeephq/daykeep/pkg/slogx"
)

type VerifyTokenHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Verify Token Endpoint
//	@Description	Report whether a session token is valid and still maps to an existing account
//	@Description	Invalid tokens yield valid=false with a 200, never an error status
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.VerifyTokenRequest	true	"Token to check"
//	@Success		200		{object}	authsdk.VerifyTokenResponse	"valid, user_id, email"
//	@Failure		400		{object}	authsdk.APIError			"code, message"
//	@Failure		500		{object}	authsdk.APIError			"code, message"
//	@Router			/v1/auth/verify [post].
func (h *VerifyTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.VerifyTokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.Token == "" {
		writeError(w, authsdk.ValidationError("Token is required"))
		return
	}

	status, err := h.AuthService.VerifyToken(ctx, req.Token)
	if err != nil {
		log.Error("token verification lookup failed", "err", err)
		writeError(w, authsdk.ErrInternal)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyTokenResponse{
		Valid:  status.Valid,
		UserID: status.UserID,
		Email:  status.Email,
	})
}
