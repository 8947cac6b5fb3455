// Package httpx holds the JSON helpers and REST handlers shared by the
// backend services.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// WriteAppError maps err to a status and a {kind, message} body. Internal
// causes are logged and never written.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	WriteError(w, apperr.HTTPStatus(err), string(kind), apperr.PublicMessage(err))
}
