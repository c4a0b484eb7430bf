package handler

import (
	"errors"
	"mime"
	"net/http"

	"github.com/greenverse/greenverse-go/internal/metrics"
	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/service"
	"github.com/greenverse/greenverse-go/internal/session"
)

const (
	landingPath = "/dashboard"
	loginPath   = "/auth/login"

	authBodyLimit = 1 << 20 // 1MB
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	auth     *service.Authenticator
	sessions *session.Manager
	metrics  metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.Authenticator, sessions *session.Manager, rec metrics.Recorder) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, metrics: rec}
}

// HandleRegister handles POST /auth/register requests. A successful signup
// starts a session and sends the browser to the landing page.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if isFormRequest(r) {
		if !parseForm(w, r) {
			return
		}
		req = model.SignupRequest{
			FirstName:       r.PostFormValue("firstName"),
			LastName:        r.PostFormValue("lastName"),
			Email:           r.PostFormValue("email"),
			Username:        r.PostFormValue("username"),
			Password:        r.PostFormValue("password"),
			ConfirmPassword: r.PostFormValue("confirmPassword"),
		}
	} else if !decodeJSON(w, r, authBodyLimit, &req) {
		return
	}

	user, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		switch {
		case service.IsValidationError(err):
			h.metrics.RecordSignup(metrics.OutcomeInvalid)
			writeJSON(w, http.StatusBadRequest, errorResponse(codeValidation, err.Error()))
		case errors.Is(err, service.ErrIdentityExists):
			h.metrics.RecordSignup(metrics.OutcomeConflict)
			writeJSON(w, http.StatusConflict, errorResponse(codeConflict, "Email or username already exists"))
		default:
			h.metrics.RecordSignup(metrics.OutcomeError)
			writeInternalError(w, r, err)
		}
		return
	}

	if _, err := h.sessions.Create(w, *user); err != nil {
		h.metrics.RecordSignup(metrics.OutcomeError)
		writeInternalError(w, r, err)
		return
	}

	h.metrics.RecordSignup(metrics.OutcomeSuccess)
	http.Redirect(w, r, landingPath, http.StatusSeeOther)
}

// HandleLogin handles POST /auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if isFormRequest(r) {
		if !parseForm(w, r) {
			return
		}
		req = model.LoginRequest{Email: r.PostFormValue("email"), Password: r.PostFormValue("password")}
	} else if !decodeJSON(w, r, authBodyLimit, &req) {
		return
	}

	user, err := h.auth.Login(r.Context(), req)
	if err != nil {
		switch {
		case service.IsValidationError(err):
			h.metrics.RecordLogin(metrics.OutcomeInvalid)
			writeJSON(w, http.StatusBadRequest, errorResponse(codeValidation, err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			h.metrics.RecordLogin(metrics.OutcomeInvalid)
			writeJSON(w, http.StatusUnauthorized, errorResponse(codeAuth, "Invalid email or password"))
		default:
			h.metrics.RecordLogin(metrics.OutcomeError)
			writeInternalError(w, r, err)
		}
		return
	}

	if _, err := h.sessions.Create(w, *user); err != nil {
		h.metrics.RecordLogin(metrics.OutcomeError)
		writeInternalError(w, r, err)
		return
	}

	h.metrics.RecordLogin(metrics.OutcomeSuccess)
	http.Redirect(w, r, landingPath, http.StatusSeeOther)
}

// HandleLogout clears the session cookie. It succeeds whether or not a
// session was present.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(w)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// HandleMe handles GET /api/v1/auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized", "authentication required"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":       s.User,
		"created_at": s.Created,
		"expires_at": s.Expires,
	})
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, authBodyLimit)

	var err error
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(authBodyLimit)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(codeBadRequest, "invalid form body"))
		return false
	}
	return true
}
