package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/repository"
)

// LikeService toggles likes and lists a user's liked posts.
type LikeService struct {
	likes  repository.LikeRepository
	logger *slog.Logger
}

func NewLikeService(likes repository.LikeRepository, logger *slog.Logger) *LikeService {
	return &LikeService{
		likes:  likes,
		logger: logger,
	}
}

// Toggle flips caller's like on postID and reports whether the post is
// liked afterwards. Returns apperror.ErrNotFound for a missing post.
func (s *LikeService) Toggle(ctx context.Context, caller *model.User, postID string) (bool, error) {
	if err := requireCaller(caller); err != nil {
		return false, err
	}

	liked, err := s.likes.ToggleLike(ctx, model.Like{PostID: postID, UserID: caller.ID})
	if err != nil {
		return false, err
	}

	s.logger.Info("like toggled",
		slog.String("postID", postID),
		slog.String("userID", caller.ID),
		slog.Bool("liked", liked),
	)
	return liked, nil
}

// ListLiked returns the posts caller likes, newest post first.
func (s *LikeService) ListLiked(ctx context.Context, caller *model.User) ([]model.Post, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	posts, err := s.likes.ListLikedPosts(ctx, caller.ID)
	if err != nil {
		s.logger.Error("failed to list liked posts",
			slog.String("userID", caller.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing liked posts: %w", err)
	}
	return posts, nil
}
