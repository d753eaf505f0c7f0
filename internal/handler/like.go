package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/service"
)

// LikeHandler serves the like toggle and the liked-posts list.
type LikeHandler struct {
	svc    *service.LikeService
	logger *slog.Logger
}

func NewLikeHandler(svc *service.LikeService, logger *slog.Logger) *LikeHandler {
	return &LikeHandler{svc: svc, logger: logger}
}

// LikeResponse reports the outcome of a toggle.
type LikeResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
}

// HandleToggle flips the caller's like on a post.
//
// HTTP: PUT /{postId}/like
func (h *LikeHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	liked, err := h.svc.Toggle(r.Context(), user, chi.URLParam(r, "postId"))
	if err != nil {
		writeError(w, err, "failed to like the post")
		return
	}

	msg := "unliked the post"
	if liked {
		msg = "liked the post"
	}
	writeJSON(w, http.StatusOK, LikeResponse{Message: msg, Liked: liked})
}

// HandleListLiked returns the posts the caller likes.
//
// HTTP: GET /like
func (h *LikeHandler) HandleListLiked(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	posts, err := h.svc.ListLiked(r.Context(), user)
	if err != nil {
		writeError(w, err, "failed to load liked posts")
		return
	}
	writeJSON(w, http.StatusOK, PostListResponse{Posts: posts})
}
