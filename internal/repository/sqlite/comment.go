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

var _ repository.CommentRepository = (*DB)(nil)

const commentColumns = `id, post_id, user_id, nickname, body, created_at, updated_at`

// CreateComment attaches a comment to an existing post. The existence
// check and the insert share a transaction, so a concurrent post delete
// cannot leave an orphan.
func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := postExists(ctx, tx, comment.PostID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound("post", comment.PostID)
		}

		now := time.Now().UTC()
		comment.ID = xid.New().String()
		comment.CreatedAt = now
		comment.UpdatedAt = now

		_, err = tx.ExecContext(ctx,
			`INSERT INTO comments (`+commentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			comment.ID,
			comment.PostID,
			comment.UserID,
			comment.Nickname,
			comment.Body,
			comment.CreatedAt,
			comment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting comment: %w", err)
		}
		return nil
	})
}

// ListComments returns the comments under postID, newest first. An
// unknown post yields an empty list.
func (db *DB) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments
		 WHERE post_id = ?
		 ORDER BY created_at DESC, rowid DESC`, postID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %s: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}

// UpdateComment loads the comment, lets mutate change its body, and saves
// it. A comment that exists under a different post is reported as not
// found.
func (db *DB) UpdateComment(ctx context.Context, postID, id string, mutate func(*model.Comment) error) (*model.Comment, error) {
	var updated *model.Comment

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		c, err := getComment(ctx, tx, postID, id)
		if err != nil {
			return err
		}

		if err := mutate(c); err != nil {
			return err
		}

		c.UpdatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx,
			`UPDATE comments SET body = ?, updated_at = ? WHERE id = ?`,
			c.Body, c.UpdatedAt, c.ID)
		if err != nil {
			return fmt.Errorf("sqlite: updating comment %s: %w", id, err)
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteComment loads the comment, asks authorize, and removes it.
func (db *DB) DeleteComment(ctx context.Context, postID, id string, authorize func(*model.Comment) error) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		c, err := getComment(ctx, tx, postID, id)
		if err != nil {
			return err
		}

		if err := authorize(c); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
			return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
		}
		return nil
	})
}

func getComment(ctx context.Context, q querier, postID, id string) (*model.Comment, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ? AND post_id = ?`, id, postID)

	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}
	return c, nil
}

func scanComment(s scanner) (*model.Comment, error) {
	var c model.Comment
	if err := s.Scan(
		&c.ID,
		&c.PostID,
		&c.UserID,
		&c.Nickname,
		&c.Body,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
