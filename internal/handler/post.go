package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/service"
)

// PostHandler serves the /posts routes.
type PostHandler struct {
	svc    *service.PostService
	logger *slog.Logger
}

func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, logger: logger}
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PostListResponse wraps a list of posts.
type PostListResponse struct {
	Posts []model.Post `json:"posts"`
}

// PostResponse wraps a single post. Post is null when the post does not
// exist.
type PostResponse struct {
	Post *model.Post `json:"post"`
}

// PostCreatedResponse acknowledges a new post.
type PostCreatedResponse struct {
	Message string      `json:"message"`
	Post    *model.Post `json:"post"`
}

// HandleList returns every post, newest first.
//
// HTTP: GET /posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err, "failed to load posts")
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts})
}

// HandleGet returns one post.
//
// HTTP: GET /posts/{postId}
//
// A missing post is not an error here: the response is 200 with
// {"post": null}.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.Get(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, PostResponse{Post: nil})
			return
		}
		writeError(w, err, "failed to load post")
		return
	}
	writeJSON(w, http.StatusOK, PostResponse{Post: post})
}

// HandleCreate stores a post written by the authenticated user.
//
// HTTP: POST /posts
// REQUEST BODY: {"title": "...", "content": "..."}
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	post, err := h.svc.Create(r.Context(), user, service.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		writeError(w, err, "failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, PostCreatedResponse{Message: "post created", Post: post})
}

// HandleUpdate edits a post the caller owns.
//
// HTTP: PUT /posts/{postId}
// REQUEST BODY: {"title": "...", "content": "..."}
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	_, err := h.svc.Update(r.Context(), user, chi.URLParam(r, "postId"),
		service.PostInput{Title: req.Title, Content: req.Content})
	if err != nil {
		writeUpdateError(w, err, "failed to update post")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "post updated"})
}

// HandleDelete removes a post the caller owns.
//
// HTTP: DELETE /posts/{postId}
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), user, chi.URLParam(r, "postId")); err != nil {
		writeError(w, err, "failed to delete post")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "post deleted"})
}
