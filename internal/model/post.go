package model

import "time"

// Post is a community feed entry.
type Post struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url,omitempty"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest is the body of a new-post request.
type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// CreateCommentRequest is the body of a new-comment request.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// LikeResponse reports the outcome of a like toggle.
type LikeResponse struct {
	Action     string `json:"action"` // "liked" or "unliked"
	LikesCount int    `json:"likes_count"`
}
