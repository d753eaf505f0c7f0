package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/service"
)

// CommentHandler serves /posts/{postId}/comments.
type CommentHandler struct {
	svc    *service.CommentService
	logger *slog.Logger
}

func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, logger: logger}
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// CommentListResponse wraps a list of comments.
type CommentListResponse struct {
	Comments []model.Comment `json:"comments"`
}

// HandleList returns the post's comments, newest first.
//
// HTTP: GET /posts/{postId}/comments
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.List(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		writeError(w, err, "failed to load comments")
		return
	}
	writeJSON(w, http.StatusOK, CommentListResponse{Comments: comments})
}

// HTTP: POST /posts/{postId}/comments
// REQUEST BODY: {"comment": "..."}
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	if _, err := h.svc.Create(r.Context(), user, chi.URLParam(r, "postId"), req.Comment); err != nil {
		writeError(w, err, "failed to create comment")
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "comment created"})
}

// HTTP: PUT /posts/{postId}/comments/{commentId}
// REQUEST BODY: {"comment": "..."}
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	_, err := h.svc.Update(r.Context(), user,
		chi.URLParam(r, "postId"), chi.URLParam(r, "commentId"), req.Comment)
	if err != nil {
		writeUpdateError(w, err, "failed to update comment")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "comment updated"})
}

// HTTP: DELETE /posts/{postId}/comments/{commentId}
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	err := h.svc.Delete(r.Context(), user, chi.URLParam(r, "postId"), chi.URLParam(r, "commentId"))
	if err != nil {
		writeError(w, err, "failed to delete comment")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "comment deleted"})
}
