package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/clinicore/backend/pkg/errors"
	"github.com/clinicore/backend/pkg/logger"
	"github.com/clinicore/backend/pkg/validator"
)

// ErrorBody is the flat error shape the clinic API returns to clients:
// {"error": "..."} with optional per-field detail for validation failures.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the flat error body for the given error. AppError carries
// its own status and client-safe message; anything else is treated as an
// infrastructure failure: full detail is logged server-side and the caller
// only sees a generic message. It prefers the request-scoped logger from
// context over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status != http.StatusInternalServerError {
		WriteJSON(w, appErr.Status, ErrorBody{Error: appErr.Message})
		return
	}

	l.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "Internal server error"})
}

// WriteValidationError writes per-field validation detail for a
// validator.ValidationError, or a plain 400 for any other decode failure.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorBody{
			Error:  "Request validation failed",
			Fields: valErr.Fields(),
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
}

// ParseID validates that the given route parameter is a positive integer id.
// On failure it writes a 400 response and returns false, signaling the caller
// to return early.
func ParseID(w http.ResponseWriter, param string) (int64, bool) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id < 1 {
		WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid id: " + param})
		return 0, false
	}
	return id, true
}
