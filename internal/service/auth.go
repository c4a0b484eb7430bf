package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/greenverse/greenverse-go/internal/model"
)

const (
	MinPasswordLength = 3
	MinUsernameLength = 3
)

var (
	ErrMissingFields       = errors.New("all fields are required")
	ErrLoginFieldsRequired = errors.New("email and password are required")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrPasswordTooShort    = errors.New("password must be at least 3 characters long")
	ErrInvalidEmail        = errors.New("please enter a valid email address")
	ErrUsernameTooShort    = errors.New("username must be at least 3 characters long")

	ErrIdentityExists     = errors.New("email or username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidationError reports whether err is a client-fixable input error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrLoginFieldsRequired) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrPasswordTooShort) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrUsernameTooShort)
}

// Authenticator validates signup and login submissions against the
// credential store. It does not issue sessions; callers do that after a
// successful Signup or Login.
type Authenticator struct {
	store *CredentialStore
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(store *CredentialStore) *Authenticator {
	return &Authenticator{store: store}
}

// Signup validates req and creates the account. Checks run in a fixed order
// and the first failure is returned.
func (a *Authenticator) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	return a.store.CreateUser(ctx, model.NewUser{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
}

// Login returns the user whose credentials match req. Unknown emails and
// wrong passwords are both reported as ErrInvalidCredentials.
func (a *Authenticator) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrLoginFieldsRequired
	}

	return a.store.VerifyCredentials(ctx, req.Email, req.Password)
}

func validateSignup(req model.SignupRequest) error {
	for _, field := range []string{req.FirstName, req.LastName, req.Email, req.Username, req.Password, req.ConfirmPassword} {
		if strings.TrimSpace(field) == "" {
			return ErrMissingFields
		}
	}

	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Username)) < MinUsernameLength {
		return ErrUsernameTooShort
	}

	return nil
}
