// Package repository holds the storage backends for users, credentials,
// plant analyses and the community feed. Each aggregate has one interface
// and two implementations, in-memory and MySQL; the backend is chosen once
// at startup by Open.
package repository

import (
	"context"
	"errors"

	"github.com/greenverse/greenverse-go/internal/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateIdentity  = errors.New("email or username already exists")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrPostNotFound       = errors.New("post not found")
)

// UserRepository stores user records and their credentials.
// Create must reject an email or username that is already taken, atomically
// with the insert. Emails and usernames are expected in lowercase.
type UserRepository interface {
	Create(ctx context.Context, user *model.User, cred model.Credential) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetCredential(ctx context.Context, email string) (model.Credential, error)
}

// AnalysisRepository stores plant analysis results.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *model.PlantAnalysis) error
	// ListByUser returns the user's analyses, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.PlantAnalysis, error)
}

// PostRepository stores community posts, likes and comments.
type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	// ListPosts returns up to limit posts, newest first.
	ListPosts(ctx context.Context, limit int) ([]model.Post, error)
	// ToggleLike likes the post for userID, or removes an existing like.
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, likesCount int, err error)
	AddComment(ctx context.Context, comment *model.Comment) error
	// ListComments returns a post's comments, oldest first.
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
}
