// Package repository declares the storage contracts the services depend on.
//
// Guarded mutations take a callback that runs inside the storage
// transaction after the row has been loaded. The callback decides whether
// the mutation may proceed (validation, ownership); returning an error
// aborts the transaction and the error is returned unchanged.
package repository

import (
	"context"

	"github.com/sakif/bulletin-board/internal/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	// CreateUser returns apperror.ErrConflict when the nickname is taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*model.User, error)
	// DeleteUser removes the user together with their posts, comments and
	// likes.
	DeleteUser(ctx context.Context, id string) error
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	// ListPosts returns every post, newest first.
	ListPosts(ctx context.Context) ([]model.Post, error)
	// UpdatePost loads the post, lets mutate change it, and saves title and
	// content, all in one transaction.
	UpdatePost(ctx context.Context, id string, mutate func(*model.Post) error) (*model.Post, error)
	// DeletePost loads the post, calls authorize, and deletes it in one
	// transaction.
	DeletePost(ctx context.Context, id string, authorize func(*model.Post) error) error
}

type CommentRepository interface {
	// CreateComment returns apperror.ErrNotFound when the post is missing.
	CreateComment(ctx context.Context, comment *model.Comment) error
	// ListComments returns the post's comments, newest first.
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
	// UpdateComment and DeleteComment only see comments under postID.
	UpdateComment(ctx context.Context, postID, id string, mutate func(*model.Comment) error) (*model.Comment, error)
	DeleteComment(ctx context.Context, postID, id string, authorize func(*model.Comment) error) error
}

type LikeRepository interface {
	// ToggleLike flips membership of the pair and reports whether the pair
	// is present afterwards. Returns apperror.ErrNotFound when the post is
	// missing.
	ToggleLike(ctx context.Context, like model.Like) (liked bool, err error)
	// ListLikedPosts returns the posts userID likes, newest post first.
	ListLikedPosts(ctx context.Context, userID string) ([]model.Post, error)
}
