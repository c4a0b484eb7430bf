package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/session"
)

const (
	codeValidation = "validation_error"
	codeConflict   = "conflict"
	codeAuth       = "invalid_credentials"
	codeNotFound   = "not_found"
	codeInternal   = "internal_error"
	codeBadRequest = "bad_request"
	codeTooLarge   = "request_too_large"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(code, msg string) map[string]string {
	return map[string]string{"error": msg, "code": code}
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse(codeInternal, "internal server error"))
}

// decodeJSON reads a JSON body of at most limit bytes into v. On failure it
// writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(codeTooLarge, "request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse(codeBadRequest, "invalid request body"))
		return false
	}
	return true
}

// currentUser returns the session user placed in the context by the
// session middleware.
func currentUser(r *http.Request) (model.User, bool) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return model.User{}, false
	}
	return s.User, true
}
