// Package seed fills a board with fake users, posts, comments and likes
// for local development. Everything goes through the services, so seeded
// data obeys the same validation and ownership rules as real traffic.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/sakif/bulletin-board/internal/model"
	"github.com/sakif/bulletin-board/internal/service"
)

// Password is shared by every seeded account. It has no digits, so it can
// never contain a seeded nickname.
const Password = "seedpassword"

// Options controls how much data is generated.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	// LikeRatio is the chance, in [0, 1], that a given user likes a given
	// post.
	LikeRatio float64
	// RandSeed makes a run reproducible. Zero picks a random seed.
	RandSeed int64
}

// DefaultOptions is a small but lively board.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		PostsPerUser:    3,
		CommentsPerPost: 2,
		LikeRatio:       0.3,
	}
}

// Result summarizes a run.
type Result struct {
	Users    []*model.User
	Posts    []*model.Post
	Comments int
	Likes    int
}

// Seeder writes fake data through the services.
type Seeder struct {
	auth     *service.AuthService
	posts    *service.PostService
	comments *service.CommentService
	likes    *service.LikeService
	logger   *slog.Logger
}

func New(
	auth *service.AuthService,
	posts *service.PostService,
	comments *service.CommentService,
	likes *service.LikeService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		auth:     auth,
		posts:    posts,
		comments: comments,
		likes:    likes,
		logger:   logger,
	}
}

// Run generates opts.Users users, then their posts, then comments and
// likes from random users.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users < 1 {
		return nil, fmt.Errorf("seed: need at least one user, got %d", opts.Users)
	}
	if opts.LikeRatio < 0 || opts.LikeRatio > 1 {
		return nil, fmt.Errorf("seed: like ratio %v outside [0, 1]", opts.LikeRatio)
	}

	f := gofakeit.New(opts.RandSeed)
	res := &Result{}

	for i := 0; i < opts.Users; i++ {
		nickname := Nickname(f.Username(), i)
		u, err := s.auth.Register(ctx, service.RegisterInput{
			Nickname: nickname,
			Password: Password,
			Confirm:  Password,
		})
		if err != nil {
			return res, fmt.Errorf("seed: registering %s: %w", nickname, err)
		}
		res.Users = append(res.Users, u)
	}

	for _, u := range res.Users {
		for j := 0; j < opts.PostsPerUser; j++ {
			p, err := s.posts.Create(ctx, u, service.PostInput{
				Title:   strings.TrimSuffix(f.Sentence(f.Number(3, 8)), "."),
				Content: f.Paragraph(1, 3, 12, "\n\n"),
			})
			if err != nil {
				return res, fmt.Errorf("seed: creating post for %s: %w", u.Nickname, err)
			}
			res.Posts = append(res.Posts, p)
		}
	}

	for _, p := range res.Posts {
		for j := 0; j < opts.CommentsPerPost; j++ {
			author := res.Users[f.Number(0, len(res.Users)-1)]
			if _, err := s.comments.Create(ctx, author, p.ID, f.Sentence(f.Number(4, 14))); err != nil {
				return res, fmt.Errorf("seed: commenting on %s: %w", p.ID, err)
			}
			res.Comments++
		}

		for _, u := range res.Users {
			if f.Float64() >= opts.LikeRatio {
				continue
			}
			if _, err := s.likes.Toggle(ctx, u, p.ID); err != nil {
				return res, fmt.Errorf("seed: liking %s: %w", p.ID, err)
			}
			res.Likes++
		}
	}

	s.logger.Info("seed complete",
		slog.Int("users", len(res.Users)),
		slog.Int("posts", len(res.Posts)),
		slog.Int("comments", res.Comments),
		slog.Int("likes", res.Likes),
	)
	return res, nil
}

// Nickname turns a generated username into a valid, unique nickname: the
// letters of base followed by a zero-padded index.
func Nickname(base string, i int) string {
	var b strings.Builder
	for _, r := range base {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if b.Len() == 0 {
		b.WriteString("user")
	}
	return fmt.Sprintf("%s%03d", b.String(), i)
}
