// Package service contains the business rules of the board.
//
//	Handler (HTTP) → Service (validation, ownership) → Repository (DB)
//
// Services take repository interfaces, never the sqlite package, and
// return apperror values that the handler layer maps to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/repository"
)

// Validation limits, in characters.
const (
	MaxTitleLength   = 200
	MaxContentLength = 20000
)

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title   string
	Content string
}

// PostService handles posts.
type PostService struct {
	posts  repository.PostRepository
	logger *slog.Logger
}

func NewPostService(posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		logger: logger,
	}
}

// Create validates and stores a post authored by caller. The author's
// nickname is copied onto the post.
func (s *PostService) Create(ctx context.Context, caller *model.User, in PostInput) (*model.Post, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	in, err := validatePostInput(in)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:   caller.ID,
		Nickname: caller.Nickname,
		Title:    in.Title,
		Content:  in.Content,
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("userID", caller.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("userID", caller.ID),
	)
	return post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Get returns one post. Returns apperror.ErrNotFound if it doesn't exist.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("post", id)
	}

	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("failed to get post", slog.String("postID", id), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return post, nil
}

// Update replaces title and content. The post must exist, the new values
// must be valid, and caller must own it, checked in that order inside one
// storage transaction.
func (s *PostService) Update(ctx context.Context, caller *model.User, id string, in PostInput) (*model.Post, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	post, err := s.posts.UpdatePost(ctx, id, func(p *model.Post) error {
		valid, err := validatePostInput(in)
		if err != nil {
			return err
		}
		if err := authorizeOwner(caller, p.Nickname, "post"); err != nil {
			return err
		}
		p.Title = valid.Title
		p.Content = valid.Content
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post updated", slog.String("postID", id), slog.String("userID", caller.ID))
	return post, nil
}

// Delete removes a post owned by caller, along with its comments and likes.
func (s *PostService) Delete(ctx context.Context, caller *model.User, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	err := s.posts.DeletePost(ctx, id, func(p *model.Post) error {
		return authorizeOwner(caller, p.Nickname, "post")
	})
	if err != nil {
		return err
	}

	s.logger.Info("post deleted", slog.String("postID", id), slog.String("userID", caller.ID))
	return nil
}

func validatePostInput(in PostInput) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	if in.Title == "" {
		return in, apperror.ValidationFailed("title", "title is required")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return in, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if in.Content == "" {
		return in, apperror.ValidationFailed("content", "content is required")
	}
	if utf8.RuneCountInString(in.Content) > MaxContentLength {
		return in, apperror.ValidationFailed("content",
			fmt.Sprintf("content must be %d characters or less", MaxContentLength))
	}
	return in, nil
}
