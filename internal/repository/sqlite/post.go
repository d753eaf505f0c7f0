package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/repository"
)

var _ repository.PostRepository = (*DB)(nil)

// postSelect reads posts with their like count. A correlated subquery
// keeps the statement free of GROUP BY.
const postSelect = `
	SELECT p.id, p.user_id, p.nickname, p.title, p.content,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes,
	       p.created_at, p.updated_at
	FROM posts p`

// CreatePost inserts a new post and fills in ID and timestamps.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	post.ID = xid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Likes = 0

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, nickname, title, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Nickname,
		post.Title,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}
	return nil
}

// GetPost returns one post with its like count.
// Returns apperror.ErrNotFound if the post does not exist.
func (db *DB) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return getPost(ctx, db.conn, id)
}

// ListPosts returns all posts, newest first. Ties on created_at fall back
// to insertion order.
func (db *DB) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		postSelect+` ORDER BY p.created_at DESC, p.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	return scanPosts(rows)
}

// UpdatePost loads the post inside a transaction and hands it to mutate.
// If mutate returns nil, the title and content it left on the post are
// saved and updated_at is bumped.
func (db *DB) UpdatePost(ctx context.Context, id string, mutate func(*model.Post) error) (*model.Post, error) {
	var updated *model.Post

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		post, err := getPost(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := mutate(post); err != nil {
			return err
		}

		post.UpdatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx,
			`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
			post.Title, post.Content, post.UpdatedAt, post.ID)
		if err != nil {
			return fmt.Errorf("sqlite: updating post %s: %w", id, err)
		}

		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePost loads the post inside a transaction, asks authorize, and
// removes it. Comments and likes on the post cascade.
func (db *DB) DeletePost(ctx context.Context, id string, authorize func(*model.Post) error) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		post, err := getPost(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := authorize(post); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
		}
		return nil
	})
}

func getPost(ctx context.Context, q querier, id string) (*model.Post, error) {
	row := q.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}
	return p, nil
}

// postExists reports whether a post row exists. Used inside transactions
// that only need the existence check.
func postExists(ctx context.Context, q querier, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: checking post %s: %w", id, err)
	}
	return true, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*model.Post, error) {
	var p model.Post
	if err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.Nickname,
		&p.Title,
		&p.Content,
		&p.Likes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}
	return posts, nil
}
