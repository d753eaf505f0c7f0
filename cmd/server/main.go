// Package main is the entry point for the bulletin board server.
//
// main only reads configuration, builds the logger and hands off to
// internal/server. All request handling lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/bulletin-board/internal/config"
	"github.com/sakif/bulletin-board/internal/server"
)

func main() {
	// === 1. ENVIRONMENT ===
	// A .env file is a development convenience; in production the variables
	// come from the process environment and the file is absent.
	_ = godotenv.Load()

	// === 2. CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 3. LOGGING ===
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET not set, using the development secret")
	}

	// === 4. DATABASE DIRECTORY ===
	if cfg.DBPath != ":memory:" {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 5. CREATE AND START THE SERVER ===
	srv, err := server.New(server.Config{
		Port:          cfg.Port,
		DBPath:        cfg.DBPath,
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        cfg.JWTTTL,
		JWTIssuer:     cfg.JWTIssuer,
		BcryptCost:    cfg.BcryptCost,
		SecureCookies: cfg.IsProduction(),
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
