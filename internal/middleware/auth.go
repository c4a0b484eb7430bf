package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/greenverse/greenverse-go/internal/session"
)

// RequireSession rejects requests without a valid session with a JSON 401.
// It reuses a session already placed in the context by Guard.
func RequireSession(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.FromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			s, ok := sessions.FromRequest(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			setLogUserID(r.Context(), s.User.ID)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), s)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}
