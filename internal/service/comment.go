package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/repository"
)

// MaxCommentLength is measured in characters.
const MaxCommentLength = 2000

// CommentService handles comments on posts.
type CommentService struct {
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, logger *slog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		logger:   logger,
	}
}

// Create adds a comment under postID. The body is validated before the
// post is looked up, so an empty comment on a missing post is a
// validation error.
func (s *CommentService) Create(ctx context.Context, caller *model.User, postID, body string) (*model.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	body, err := validateCommentBody(body)
	if err != nil {
		return nil, err
	}

	c := &model.Comment{
		PostID:   postID,
		UserID:   caller.ID,
		Nickname: caller.Nickname,
		Body:     body,
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		slog.String("commentID", c.ID),
		slog.String("postID", postID),
		slog.String("userID", caller.ID),
	)
	return c, nil
}

// List returns the comments under postID, newest first.
func (s *CommentService) List(ctx context.Context, postID string) ([]model.Comment, error) {
	comments, err := s.comments.ListComments(ctx, postID)
	if err != nil {
		s.logger.Error("failed to list comments",
			slog.String("postID", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}

// Update replaces the body of a comment caller owns.
func (s *CommentService) Update(ctx context.Context, caller *model.User, postID, id, body string) (*model.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	c, err := s.comments.UpdateComment(ctx, postID, id, func(c *model.Comment) error {
		valid, err := validateCommentBody(body)
		if err != nil {
			return err
		}
		if err := authorizeOwner(caller, c.Nickname, "comment"); err != nil {
			return err
		}
		c.Body = valid
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment updated", slog.String("commentID", id), slog.String("userID", caller.ID))
	return c, nil
}

// Delete removes a comment caller owns.
func (s *CommentService) Delete(ctx context.Context, caller *model.User, postID, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	err := s.comments.DeleteComment(ctx, postID, id, func(c *model.Comment) error {
		return authorizeOwner(caller, c.Nickname, "comment")
	})
	if err != nil {
		return err
	}

	s.logger.Info("comment deleted", slog.String("commentID", id), slog.String("userID", caller.ID))
	return nil
}

func validateCommentBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", apperror.ValidationFailed("comment", "comment is required")
	}
	if utf8.RuneCountInString(body) > MaxCommentLength {
		return "", apperror.ValidationFailed("comment",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}
	return body, nil
}
