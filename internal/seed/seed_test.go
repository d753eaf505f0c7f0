package seed

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/repository/sqlite"
	"github.com/sakif/bulletin-board/internal/service"
)

func newTestSeeder(t *testing.T) (*Seeder, *sqlite.DB, *service.AuthService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "seed-test-secret-value", TTL: time.Hour})
	require.NoError(t, err)

	authSvc := service.NewAuthService(db, tokens, auth.NewPasswordServiceForTest(), logger)
	s := New(
		authSvc,
		service.NewPostService(db, logger),
		service.NewCommentService(db, logger),
		service.NewLikeService(db, logger),
		logger,
	)
	return s, db, authSvc
}

func TestRun_PopulatesBoard(t *testing.T) {
	s, db, authSvc := newTestSeeder(t)
	ctx := context.Background()

	res, err := s.Run(ctx, Options{Users: 4, PostsPerUser: 2, CommentsPerPost: 3, LikeRatio: 1, RandSeed: 42})
	require.NoError(t, err)

	assert.Len(t, res.Users, 4)
	assert.Len(t, res.Posts, 8)
	assert.Equal(t, 24, res.Comments)
	assert.Equal(t, 32, res.Likes)

	posts, err := db.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 8)
	for _, p := range posts {
		assert.Equal(t, 4, p.Likes, "every user likes every post at ratio 1")

		comments, err := db.ListComments(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 3)
	}

	// Seeded accounts can log in.
	_, err = authSvc.Login(ctx, res.Users[0].Nickname, Password)
	assert.NoError(t, err)
}

func TestRun_ZeroLikeRatio(t *testing.T) {
	s, _, _ := newTestSeeder(t)

	res, err := s.Run(context.Background(), Options{Users: 2, PostsPerUser: 1, LikeRatio: 0, RandSeed: 7})
	require.NoError(t, err)
	assert.Zero(t, res.Likes)
	assert.Zero(t, res.Comments)
}

func TestRun_RejectsBadOptions(t *testing.T) {
	s, _, _ := newTestSeeder(t)

	_, err := s.Run(context.Background(), Options{Users: 0})
	assert.Error(t, err)

	_, err = s.Run(context.Background(), Options{Users: 1, LikeRatio: 1.5})
	assert.Error(t, err)
}

func TestNickname(t *testing.T) {
	valid := regexp.MustCompile(`^[a-zA-Z0-9]{3,}$`)

	tests := []struct {
		base string
		i    int
		want string
	}{
		{"Abshire_42", 0, "abshire000"},
		{"", 7, "user007"},
		{"__99", 12, "user012"},
		{"Zoë", 3, "zo003"},
	}

	for _, tt := range tests {
		got := Nickname(tt.base, tt.i)
		assert.Equal(t, tt.want, got)
		assert.Regexp(t, valid, got)
		assert.False(t, strings.Contains(Password, got))
	}
}
