package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/repository"
)

func newTestFeed() *FeedService {
	svc := NewFeedService(repository.NewMemoryPostRepository())
	tick := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return svc
}

var gardener = model.User{ID: "u-1", Username: "greenthumb"}

func TestCreatePost_SanitizesContent(t *testing.T) {
	svc := newTestFeed()

	post, err := svc.CreatePost(context.Background(), gardener, model.CreatePostRequest{
		Content: `<script>alert(1)</script><b>Repotted</b> my aloe`,
	})
	require.NoError(t, err)
	assert.Equal(t, "Repotted my aloe", post.Content)
	assert.Equal(t, "greenthumb", post.Username)
	assert.NotEmpty(t, post.ID)
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  model.CreatePostRequest
		want error
	}{
		{"empty", model.CreatePostRequest{Content: "   "}, ErrContentRequired},
		{"markup only", model.CreatePostRequest{Content: "<p></p>"}, ErrContentRequired},
		{"too long", model.CreatePostRequest{Content: strings.Repeat("a", MaxPostLength+1)}, ErrContentTooLong},
		{"bad image scheme", model.CreatePostRequest{Content: "hi", ImageURL: "javascript:alert(1)"}, ErrInvalidImageURL},
		{"relative image", model.CreatePostRequest{Content: "hi", ImageURL: "/img.png"}, ErrInvalidImageURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestFeed().CreatePost(context.Background(), gardener, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreatePost_MaxLengthAccepted(t *testing.T) {
	_, err := newTestFeed().CreatePost(context.Background(), gardener, model.CreatePostRequest{
		Content:  strings.Repeat("é", MaxPostLength),
		ImageURL: "https://cdn.example.com/aloe.jpg",
	})
	assert.NoError(t, err)
}

func TestListPosts_Limits(t *testing.T) {
	svc := newTestFeed()
	ctx := context.Background()
	for i := 0; i < MaxFeedLimit+5; i++ {
		_, err := svc.CreatePost(ctx, gardener, model.CreatePostRequest{Content: "post"})
		require.NoError(t, err)
	}

	all, err := svc.ListPosts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, DefaultFeedLimit)

	capped, err := svc.ListPosts(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, capped, MaxFeedLimit)

	few, err := svc.ListPosts(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, few, 3)
	assert.True(t, few[0].CreatedAt.After(few[1].CreatedAt))
}

func TestToggleLike(t *testing.T) {
	svc := newTestFeed()
	ctx := context.Background()
	post, err := svc.CreatePost(ctx, gardener, model.CreatePostRequest{Content: "Look at this fern"})
	require.NoError(t, err)

	res, err := svc.ToggleLike(ctx, post.ID, "u-2")
	require.NoError(t, err)
	assert.Equal(t, model.LikeResponse{Action: "liked", LikesCount: 1}, res)

	res, err = svc.ToggleLike(ctx, post.ID, "u-2")
	require.NoError(t, err)
	assert.Equal(t, model.LikeResponse{Action: "unliked", LikesCount: 0}, res)

	_, err = svc.ToggleLike(ctx, "missing", "u-2")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestComments(t *testing.T) {
	svc := newTestFeed()
	ctx := context.Background()
	post, err := svc.CreatePost(ctx, gardener, model.CreatePostRequest{Content: "Yellow leaves?"})
	require.NoError(t, err)

	commenter := model.User{ID: "u-2", Username: "gardenguru"}
	_, err = svc.AddComment(ctx, commenter, post.ID, model.CreateCommentRequest{Content: "Too much water"})
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, gardener, post.ID, model.CreateCommentRequest{Content: "Thanks!"})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "gardenguru", comments[0].Username)
	assert.Equal(t, "Thanks!", comments[1].Content)

	_, err = svc.AddComment(ctx, commenter, post.ID, model.CreateCommentRequest{Content: ""})
	assert.ErrorIs(t, err, ErrContentRequired)
	_, err = svc.AddComment(ctx, commenter, "missing", model.CreateCommentRequest{Content: "hello"})
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = svc.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreatePost_KeepsPlainTextCharacters(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"less than", "5 < 6 and 7 > 3", "5 < 6 and 7 > 3"},
		{"quotes", `she said "ok" and it's fine`, `she said "ok" and it's fine`},
		{"tags still stripped", `Tom & <b>Jerry</b>`, "Tom & Jerry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := newTestFeed().CreatePost(context.Background(), gardener, model.CreatePostRequest{Content: tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.want, post.Content)
		})
	}
}

func TestCreatePost_LengthCountsPlainText(t *testing.T) {
	svc := newTestFeed()

	post, err := svc.CreatePost(context.Background(), gardener, model.CreatePostRequest{Content: strings.Repeat("&", MaxPostLength)})
	require.NoError(t, err)
	assert.Len(t, post.Content, MaxPostLength)

	_, err = svc.CreatePost(context.Background(), gardener, model.CreatePostRequest{Content: strings.Repeat("&", MaxPostLength+1)})
	assert.ErrorIs(t, err, ErrContentTooLong)
}

func TestAddComment_KeepsPlainTextCharacters(t *testing.T) {
	svc := newTestFeed()
	ctx := context.Background()
	post, err := svc.CreatePost(ctx, gardener, model.CreatePostRequest{Content: "Q&A thread"})
	require.NoError(t, err)

	c, err := svc.AddComment(ctx, gardener, post.ID, model.CreateCommentRequest{Content: `pH < 7 & "acidic"`})
	require.NoError(t, err)
	assert.Equal(t, `pH < 7 & "acidic"`, c.Content)
}
