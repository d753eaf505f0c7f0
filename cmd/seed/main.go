// Command seed fills the configured database with fake board data.
//
//	go run ./cmd/seed -users 20 -posts 5
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/config"
	"github.com/sakif/bulletin-board/internal/repository/sqlite"
	"github.com/sakif/bulletin-board/internal/seed"
	"github.com/sakif/bulletin-board/internal/service"
)

func main() {
	defaults := seed.DefaultOptions()
	users := flag.Int("users", defaults.Users, "number of users to create")
	posts := flag.Int("posts", defaults.PostsPerUser, "posts per user")
	comments := flag.Int("comments", defaults.CommentsPerPost, "comments per post")
	likeRatio := flag.Float64("like-ratio", defaults.LikeRatio, "chance that a user likes a post")
	randSeed := flag.Int64("seed", 0, "random seed, 0 for a random run")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			logger.Error("failed to create database directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL, Issuer: cfg.JWTIssuer})
	if err != nil {
		logger.Error("failed to create token service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	passwords, err := auth.NewPasswordServiceWithCost(cfg.BcryptCost)
	if err != nil {
		logger.Error("failed to create password service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	s := seed.New(
		service.NewAuthService(db, tokens, passwords, logger),
		service.NewPostService(db, logger),
		service.NewCommentService(db, logger),
		service.NewLikeService(db, logger),
		logger,
	)

	_, err = s.Run(context.Background(), seed.Options{
		Users:           *users,
		PostsPerUser:    *posts,
		CommentsPerPost: *comments,
		LikeRatio:       *likeRatio,
		RandSeed:        *randSeed,
	})
	if err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("all seeded accounts use the same password", slog.String("password", seed.Password))
}
