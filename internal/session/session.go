// Package session issues and reads the signed, client-held login cookie.
//
// A session carries a snapshot of the user taken at login together with its
// creation and expiry instants. Nothing is kept server side: a session is
// valid for as long as its signature verifies and the current time is
// before its expiry.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/greenverse/greenverse-go/internal/crypto"
	"github.com/greenverse/greenverse-go/internal/model"
)

const (
	CookieName = "session"
	DefaultTTL = 7 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid or expired session")

type contextKey struct{}

// Manager creates, reads and clears session cookies.
type Manager struct {
	codec  *crypto.TokenCodec
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock used for issuing and validating sessions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

// WithSecureCookie marks issued cookies Secure.
func WithSecureCookie(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// NewManager creates a Manager signing with secret.
func NewManager(secret string, opts ...Option) *Manager {
	m := &Manager{
		codec: crypto.NewTokenCodec(secret),
		ttl:   DefaultTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue builds a session for user starting now and returns it with its
// encoded token. Times are truncated to whole seconds, the precision the
// token carries.
func (m *Manager) Issue(user model.User) (model.Session, string, error) {
	created := m.now().UTC().Truncate(time.Second)
	s := model.Session{
		User:    user,
		Created: created,
		Expires: created.Add(m.ttl),
	}

	token, err := m.codec.Sign(user, s.Created, s.Expires)
	if err != nil {
		return model.Session{}, "", err
	}
	return s, token, nil
}

// Parse decodes token and returns the session if it is authentic and
// unexpired.
func (m *Manager) Parse(token string) (model.Session, error) {
	claims, err := m.codec.Parse(token, m.now())
	if err != nil {
		return model.Session{}, ErrInvalidSession
	}
	if claims.Subject != claims.User.ID {
		return model.Session{}, ErrInvalidSession
	}

	s := model.Session{
		User:    claims.User,
		Created: claims.IssuedAt.Time.UTC(),
		Expires: claims.ExpiresAt.Time.UTC(),
	}
	if !s.ValidAt(m.now()) {
		return model.Session{}, ErrInvalidSession
	}
	return s, nil
}

// Create issues a session for user and writes it to w as a cookie.
func (m *Manager) Create(w http.ResponseWriter, user model.User) (model.Session, error) {
	s, token, err := m.Issue(user)
	if err != nil {
		return model.Session{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.Expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// FromRequest returns the valid session carried by r. A missing, tampered
// or expired cookie all report false.
func (m *Manager) FromRequest(r *http.Request) (model.Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return model.Session{}, false
	}

	s, err := m.Parse(c.Value)
	if err != nil {
		return model.Session{}, false
	}
	return s, true
}

// Delete instructs the client to drop the session cookie.
func (m *Manager) Delete(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s model.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (model.Session, bool) {
	s, ok := ctx.Value(contextKey{}).(model.Session)
	return s, ok
}
