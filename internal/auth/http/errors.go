package http

import (
	"net/http"

	"github.com/daykeephq/daykeep/pkg/authsdk"
	"github.com/daykeephq/daykeep/pkg/httpx"
)

func writeError(w http.ResponseWriter, apiErr *authsdk.APIError) {
	httpx.WriteJSON(w, apiErr.StatusCode, apiErr)
}

func writeBadJSON(w http.ResponseWriter) {
	writeError(w, &authsdk.APIError{
		StatusCode: http.StatusBadRequest,
		Code:       authsdk.ErrorCodeBadRequest,
		Message:    "Request body must be a single valid JSON object",
	})
}
