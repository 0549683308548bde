package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/augejs/tokenstore-go/internal/core/domain"
)

// errorBody is the JSON error envelope shared by middlewares and
// guards. Handlers use the richer envelope in the handler package.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeErrorCode writes a minimal error response.
func writeErrorCode(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Code: code, Message: message})
}

// writeDomainError maps a domain error onto the wire. The message
// travels verbatim, which is how a revoked record's flash message
// reaches the bearer.
func writeDomainError(w http.ResponseWriter, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		writeErrorCode(w, domain.ErrInternalServer.Code, "internal server error", http.StatusInternalServerError)
		return
	}
	writeErrorCode(w, de.Code, de.Message, de.HTTPStatus())
}
