package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/repository"
)

var _ repository.LikeRepository = (*DB)(nil)

// ToggleLike flips the (post, user) pair in one transaction.
//
// The delete runs first: if it removed a row the user has unliked.
// Otherwise the pair is inserted. ON CONFLICT DO NOTHING plus the
// composite primary key mean a concurrent toggle can never produce a
// second row for the same pair.
func (db *DB) ToggleLike(ctx context.Context, like model.Like) (bool, error) {
	var liked bool

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := postExists(ctx, tx, like.PostID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound("post", like.PostID)
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM likes WHERE post_id = ? AND user_id = ?`,
			like.PostID, like.UserID)
		if err != nil {
			return fmt.Errorf("sqlite: removing like: %w", err)
		}
		n, err := rowsAffected(res)
		if err != nil {
			return err
		}
		if n > 0 {
			liked = false
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO likes (post_id, user_id, created_at) VALUES (?, ?, ?)
			 ON CONFLICT (post_id, user_id) DO NOTHING`,
			like.PostID, like.UserID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("sqlite: adding like: %w", err)
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// ListLikedPosts returns every post userID currently likes, newest post
// first. Likes reports the post's total count, not just this user's.
func (db *DB) ListLikedPosts(ctx context.Context, userID string) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		postSelect+`
		JOIN likes mine ON mine.post_id = p.id
		WHERE mine.user_id = ?
		ORDER BY p.created_at DESC, p.rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing liked posts for %s: %w", userID, err)
	}
	return scanPosts(rows)
}
