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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, nickname, password_hash, created_at, updated_at`

// CreateUser inserts a new user. The ID and timestamps are filled in on
// the caller's struct.
//
// Nickname uniqueness is left to the UNIQUE constraint: two concurrent
// registrations cannot both succeed, and the loser gets
// apperror.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, nickname, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Nickname,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Nickname)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Nickname, err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByNickname retrieves a user by nickname.
// Returns apperror.ErrNotFound if nobody has that nickname.
func (db *DB) GetUserByNickname(ctx context.Context, nickname string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE nickname = ?`, nickname)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", nickname)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", nickname, err)
	}
	return u, nil
}

// DeleteUser removes a user. Their posts, comments and likes go with them
// through ON DELETE CASCADE.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.Nickname,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
