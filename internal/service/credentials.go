package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/repository"
)

// PasswordHasher derives and checks one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// CredentialStore owns user identities and their secrets. It normalizes
// identities, assigns ids and hashes passwords before delegating to the
// storage backend, which enforces uniqueness.
type CredentialStore struct {
	repo   repository.UserRepository
	hasher PasswordHasher
	now    func() time.Time
}

// NewCredentialStore creates a CredentialStore over repo.
func NewCredentialStore(repo repository.UserRepository, hasher PasswordHasher) *CredentialStore {
	return &CredentialStore{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
}

// CreateUser stores a new account and returns it without its secret.
// An email or username already in use, in any casing, yields ErrIdentityExists.
func (s *CredentialStore) CreateUser(ctx context.Context, nu model.NewUser) (*model.User, error) {
	hash, err := s.hasher.Hash(nu.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:          uuid.NewString(),
		Email:       normalizeIdentity(nu.Email),
		Username:    normalizeIdentity(nu.Username),
		FirstName:   strings.TrimSpace(nu.FirstName),
		LastName:    strings.TrimSpace(nu.LastName),
		AvatarURL:   nu.Profile.AvatarURL,
		Bio:         nu.Profile.Bio,
		Location:    nu.Profile.Location,
		GrowingZone: nu.Profile.GrowingZone,
		CreatedAt:   s.now().UTC(),
	}

	err = s.repo.Create(ctx, user, model.Credential{Email: user.Email, SecretHash: hash})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentity) {
			return nil, ErrIdentityExists
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID returns the user with id, or ErrNotFound.
func (s *CredentialStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail returns the user registered under email in any casing, or ErrNotFound.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeIdentity(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// VerifyCredentials returns the user when password matches the stored
// secret for email. Every kind of mismatch is reported as ErrInvalidCredentials.
func (s *CredentialStore) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeIdentity(email)

	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			slog.Debug("login rejected: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	cred, err := s.repo.GetCredential(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			slog.Warn("login rejected: user has no credential", "user_id", user.ID)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := s.hasher.Verify(password, cred.SecretHash)
	if err != nil {
		slog.Error("stored credential is unreadable", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !match {
		slog.Debug("login rejected: wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
