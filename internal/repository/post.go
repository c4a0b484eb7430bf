package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/greenverse/greenverse-go/internal/model"
)

const postSelect = `SELECT p.id, p.user_id, u.username, p.content, p.image_url, p.likes_count, p.comments_count, p.created_at
	FROM posts p JOIN users u ON u.id = p.user_id`

// MySQLPostRepository handles feed persistence in MySQL.
type MySQLPostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a MySQL-backed post repository.
func NewPostRepository(db *sql.DB) *MySQLPostRepository {
	return &MySQLPostRepository{db: db}
}

// CreatePost inserts a post. Counters start at zero.
func (r *MySQLPostRepository) CreatePost(ctx context.Context, p *model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, content, image_url, likes_count, comments_count, created_at) VALUES (?, ?, ?, ?, 0, 0, ?)`,
		p.ID, p.UserID, p.Content, nullString(p.ImageURL), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetPost retrieves a post with its author's username.
func (r *MySQLPostRepository) GetPost(ctx context.Context, id string) (*model.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("select post: %w", err)
	}
	return p, nil
}

// ListPosts retrieves the newest posts.
func (r *MySQLPostRepository) ListPosts(ctx context.Context, limit int) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx, postSelect+` ORDER BY p.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ToggleLike flips the user's like on a post and keeps likes_count in step,
// holding a row lock on the post for the duration.
func (r *MySQLPostRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("begin like toggle: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `SELECT likes_count FROM posts WHERE id = ? FOR UPDATE`, postID).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, 0, ErrPostNotFound
		}
		return false, 0, fmt.Errorf("lock post: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return false, 0, fmt.Errorf("delete like: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}

	liked := removed == 0
	delta := -1
	if liked {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)`,
			userID, postID, time.Now().UTC(),
		); err != nil {
			return false, 0, fmt.Errorf("insert like: %w", err)
		}
		delta = 1
	}

	if _, err := tx.ExecContext(ctx, `UPDATE posts SET likes_count = likes_count + ? WHERE id = ?`, delta, postID); err != nil {
		return false, 0, fmt.Errorf("update likes_count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("commit like toggle: %w", err)
	}
	return liked, count + delta, nil
}

// AddComment inserts a comment and bumps the post's comments_count.
func (r *MySQLPostRepository) AddComment(ctx context.Context, c *model.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin comment insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE posts SET comments_count = comments_count + 1 WHERE id = ?`, c.PostID)
	if err != nil {
		return fmt.Errorf("update comments_count: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrPostNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit comment insert: %w", err)
	}
	return nil
}

// ListComments retrieves a post's comments in posting order.
func (r *MySQLPostRepository) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ? ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanPost(row rowScanner) (*model.Post, error) {
	var (
		p        model.Post
		imageURL sql.NullString
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Username, &p.Content, &imageURL, &p.LikesCount, &p.CommentsCount, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ImageURL = imageURL.String
	return &p, nil
}
