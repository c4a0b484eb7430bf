package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/greenverse/greenverse-go/internal/model"
	"github.com/greenverse/greenverse-go/internal/service"
)

const postBodyLimit = 64 << 10

// FeedHandler handles HTTP requests for the community feed.
type FeedHandler struct {
	service *service.FeedService
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(svc *service.FeedService) *FeedHandler {
	return &FeedHandler{service: svc}
}

// HandleList handles GET /api/v1/posts requests.
func (h *FeedHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse(codeValidation, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	posts, err := h.service.ListPosts(r.Context(), limit)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// HandleCreate handles POST /api/v1/posts requests.
func (h *FeedHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized", "authentication required"))
		return
	}

	var req model.CreatePostRequest
	if !decodeJSON(w, r, postBodyLimit, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), user, req)
	if err != nil {
		h.writeFeedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleToggleLike handles POST /api/v1/posts/{postID}/like requests.
func (h *FeedHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized", "authentication required"))
		return
	}

	resp, err := h.service.ToggleLike(r.Context(), chi.URLParam(r, "postID"), user.ID)
	if err != nil {
		h.writeFeedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleListComments handles GET /api/v1/posts/{postID}/comments requests.
func (h *FeedHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		h.writeFeedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// HandleAddComment handles POST /api/v1/posts/{postID}/comments requests.
func (h *FeedHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized", "authentication required"))
		return
	}

	var req model.CreateCommentRequest
	if !decodeJSON(w, r, postBodyLimit, &req) {
		return
	}

	comment, err := h.service.AddComment(r.Context(), user, chi.URLParam(r, "postID"), req)
	if err != nil {
		h.writeFeedError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *FeedHandler) writeFeedError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrContentRequired),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrInvalidImageURL):
		writeJSON(w, http.StatusBadRequest, errorResponse(codeValidation, err.Error()))
	case errors.Is(err, service.ErrPostNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(codeNotFound, err.Error()))
	default:
		writeInternalError(w, r, err)
	}
}
