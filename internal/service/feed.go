package service

import (
	"context"
	"errors"
	"html"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/repository"
)

const (
	MaxPostLength    = 2000
	MaxCommentLength = 2000

	DefaultFeedLimit = 50
	MaxFeedLimit     = 100
)

var (
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content is too long")
	ErrInvalidImageURL = errors.New("imageUrl must be an http or https URL")
	ErrPostNotFound    = errors.New("post not found")
)

// FeedService handles community posts, likes and comments. User-supplied
// text is reduced to plain text before it is stored.
type FeedService struct {
	repo   repository.PostRepository
	policy *bluemonday.Policy
	now    func() time.Time
}

// NewFeedService creates a new FeedService.
func NewFeedService(repo repository.PostRepository) *FeedService {
	return &FeedService{
		repo:   repo,
		policy: bluemonday.StrictPolicy(),
		now:    time.Now,
	}
}

// CreatePost publishes a post by author.
func (s *FeedService) CreatePost(ctx context.Context, author model.User, req model.CreatePostRequest) (*model.Post, error) {
	content, err := s.cleanText(req.Content, MaxPostLength)
	if err != nil {
		return nil, err
	}

	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL != "" && !isHTTPURL(imageURL) {
		return nil, ErrInvalidImageURL
	}

	p := &model.Post{
		ID:        uuid.NewString(),
		UserID:    author.ID,
		Username:  author.Username,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns the newest posts. A non-positive limit selects the
// default and larger limits are capped.
func (s *FeedService) ListPosts(ctx context.Context, limit int) ([]model.Post, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	return s.repo.ListPosts(ctx, limit)
}

// ToggleLike likes the post for userID, or removes an existing like.
func (s *FeedService) ToggleLike(ctx context.Context, postID, userID string) (model.LikeResponse, error) {
	liked, count, err := s.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.LikeResponse{}, ErrPostNotFound
		}
		return model.LikeResponse{}, err
	}

	action := "unliked"
	if liked {
		action = "liked"
	}
	return model.LikeResponse{Action: action, LikesCount: count}, nil
}

// AddComment attaches a comment by author to a post.
func (s *FeedService) AddComment(ctx context.Context, author model.User, postID string, req model.CreateCommentRequest) (*model.Comment, error) {
	content, err := s.cleanText(req.Content, MaxCommentLength)
	if err != nil {
		return nil, err
	}

	c := &model.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    author.ID,
		Username:  author.Username,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListComments returns a post's comments, oldest first.
func (s *FeedService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.repo.ListComments(ctx, postID)
}

func (s *FeedService) cleanText(raw string, max int) (string, error) {
	// Sanitize strips markup but entity-encodes the text it keeps; the feed
	// stores plain text, so decode it back.
	text := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
	if text == "" {
		return "", ErrContentRequired
	}
	if utf8.RuneCountInString(text) > max {
		return "", ErrContentTooLong
	}
	return text, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
