package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/greenverse/greenverse-go/internal/metrics"
	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/session"
)

// SessionReader resolves the valid session carried by a request, if any.
type SessionReader interface {
	FromRequest(r *http.Request) (model.Session, bool)
}

// RouteTable classifies paths for the route guard.
type RouteTable struct {
	// Protected path prefixes. A prefix matches itself and anything below it.
	Protected []string
	// AuthOnly paths are matched exactly and are only for signed-out visitors.
	AuthOnly []string
	Landing  string
	Login    string
}

// DefaultRoutes is the application's route table.
func DefaultRoutes() RouteTable {
	return RouteTable{
		Protected: []string{"/dashboard", "/community", "/dehydration-detector", "/marketplace", "/profile"},
		AuthOnly:  []string{"/auth/login", "/auth/register"},
		Landing:   "/dashboard",
		Login:     "/auth/login",
	}
}

// IsProtected reports whether path requires a session.
func (rt RouteTable) IsProtected(path string) bool {
	for _, prefix := range rt.Protected {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// IsAuthOnly reports whether path is reserved for signed-out visitors.
func (rt RouteTable) IsAuthOnly(path string) bool {
	for _, p := range rt.AuthOnly {
		if path == p {
			return true
		}
	}
	return false
}

// Redirect returns where a request for path should be sent, or "" to let it through.
func (rt RouteTable) Redirect(path string, signedIn bool) string {
	switch {
	case signedIn && rt.IsAuthOnly(path):
		return rt.Landing
	case !signedIn && rt.IsProtected(path):
		return rt.Login
	default:
		return ""
	}
}

// Guard gates page routes on session state. Signed-in visitors are kept off
// the auth pages and signed-out visitors are kept off protected pages, both
// with a temporary redirect. A valid session is added to the request context.
func Guard(sessions SessionReader, routes RouteTable, rec metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, signedIn := sessions.FromRequest(r)

			if target := routes.Redirect(r.URL.Path, signedIn); target != "" {
				slog.Debug("route guard redirect", "path", r.URL.Path, "target", target, "signed_in", signedIn)
				rec.RecordGuardRedirect(target)
				http.Redirect(w, r, target, http.StatusTemporaryRedirect)
				return
			}

			if signedIn {
				setLogUserID(r.Context(), s.User.ID)
				r = r.WithContext(session.NewContext(r.Context(), s))
			}
			next.ServeHTTP(w, r)
		})
	}
}
