package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/greenverse/greenverse-go/internal/model"
)

// MemoryUserRepository keeps users in process memory. The uniqueness check
// and the insert happen under one lock, so concurrent signups cannot both
// claim the same email or username.
type MemoryUserRepository struct {
	mu           sync.RWMutex
	users        map[string]model.User
	idByEmail    map[string]string
	idByUsername map[string]string
	credentials  map[string]string
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:        make(map[string]model.User),
		idByEmail:    make(map[string]string),
		idByUsername: make(map[string]string),
		credentials:  make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User, cred model.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.idByEmail[user.Email]; taken {
		return ErrDuplicateIdentity
	}
	if _, taken := r.idByUsername[user.Username]; taken {
		return ErrDuplicateIdentity
	}

	r.users[user.ID] = *user
	r.idByEmail[user.Email] = user.ID
	r.idByUsername[user.Username] = user.ID
	r.credentials[cred.Email] = cred.SecretHash
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *MemoryUserRepository) GetCredential(_ context.Context, email string) (model.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hash, ok := r.credentials[email]
	if !ok {
		return model.Credential{}, ErrCredentialNotFound
	}
	return model.Credential{Email: email, SecretHash: hash}, nil
}

// MemoryAnalysisRepository keeps plant analyses in process memory.
type MemoryAnalysisRepository struct {
	mu       sync.RWMutex
	analyses []model.PlantAnalysis
}

// NewMemoryAnalysisRepository creates an empty in-memory analysis repository.
func NewMemoryAnalysisRepository() *MemoryAnalysisRepository {
	return &MemoryAnalysisRepository{}
}

func (r *MemoryAnalysisRepository) Create(_ context.Context, a *model.PlantAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *a
	stored.Recommendations = append([]string(nil), a.Recommendations...)
	r.analyses = append(r.analyses, stored)
	return nil
}

func (r *MemoryAnalysisRepository) ListByUser(_ context.Context, userID string) ([]model.PlantAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []model.PlantAnalysis{}
	for _, a := range r.analyses {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// MemoryPostRepository keeps the community feed in process memory.
type MemoryPostRepository struct {
	mu       sync.RWMutex
	posts    map[string]*model.Post
	order    []string // insertion order
	likes    map[string]map[string]struct{}
	comments map[string][]model.Comment
}

// NewMemoryPostRepository creates an empty in-memory post repository.
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts:    make(map[string]*model.Post),
		likes:    make(map[string]map[string]struct{}),
		comments: make(map[string][]model.Comment),
	}
}

func (r *MemoryPostRepository) CreatePost(_ context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	stored.LikesCount = 0
	stored.CommentsCount = 0
	r.posts[p.ID] = &stored
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryPostRepository) GetPost(_ context.Context, id string) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	post := *p
	return &post, nil
}

func (r *MemoryPostRepository) ListPosts(_ context.Context, limit int) ([]model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]model.Post, 0, len(r.order))
	for _, id := range r.order {
		posts = append(posts, *r.posts[id])
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if limit >= 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *MemoryPostRepository) ToggleLike(_ context.Context, postID, userID string) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return false, 0, ErrPostNotFound
	}

	likers := r.likes[postID]
	if likers == nil {
		likers = make(map[string]struct{})
		r.likes[postID] = likers
	}

	if _, liked := likers[userID]; liked {
		delete(likers, userID)
		p.LikesCount--
		return false, p.LikesCount, nil
	}
	likers[userID] = struct{}{}
	p.LikesCount++
	return true, p.LikesCount, nil
}

func (r *MemoryPostRepository) AddComment(_ context.Context, c *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[c.PostID]
	if !ok {
		return ErrPostNotFound
	}
	r.comments[c.PostID] = append(r.comments[c.PostID], *c)
	p.CommentsCount++
	return nil
}

func (r *MemoryPostRepository) ListComments(_ context.Context, postID string) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := append([]model.Comment{}, r.comments[postID]...)
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}
