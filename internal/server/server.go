// Package server wires storage, services, handlers and middleware into a
// chi router and runs the HTTP server with graceful shutdown.
//
//	main.go → server.New: sqlite.DB → services → handlers → routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/bulletin-board/internal/auth"
	"github.com/sakif/bulletin-board/internal/handler"
	"github.com/sakif/bulletin-board/internal/middleware"
	sqliteRepo "github.com/sakif/bulletin-board/internal/repository/sqlite"
	"github.com/sakif/bulletin-board/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port       int
	DBPath     string
	JWTSecret  string
	JWTTTL     time.Duration
	JWTIssuer  string
	BcryptCost int
	// SecureCookies marks the credential cookie Secure (HTTPS only).
	SecureCookies bool
}

// Server owns the router and the database connection. The connection is
// closed when Start returns or Close is called.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and builds the full dependency graph.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	passwords, err := auth.NewPasswordServiceWithCost(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("creating password service: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens, passwords)

	return s, nil
}

// setupRoutes registers middleware and routes.
//
// Public:
//
//	POST /signup, POST /login, POST /logout
//	GET  /posts, GET /posts/{postId}, GET /posts/{postId}/comments
//	GET  /healthz, GET /metrics
//
// Behind RequireAuth:
//
//	GET  /me
//	POST /posts, PUT|DELETE /posts/{postId}
//	POST /posts/{postId}/comments, PUT|DELETE /posts/{postId}/comments/{commentId}
//	PUT  /{postId}/like, GET /like
//
// Middleware runs in the order added: request id, real IP, panic recovery,
// metrics, request logging.
func (s *Server) setupRoutes(tokens *auth.TokenService, passwords *auth.PasswordService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Metrics)
	s.router.Use(middleware.Logger(s.logger))

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	postService := service.NewPostService(s.db, s.logger)
	commentService := service.NewCommentService(s.db, s.logger)
	likeService := service.NewLikeService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.config.SecureCookies, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	likeHandler := handler.NewLikeHandler(likeService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db)

	requireAuth := auth.RequireAuth(authService, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Post("/signup", authHandler.HandleSignup)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/logout", authHandler.HandleLogout)

	s.router.Get("/posts", postHandler.HandleList)
	s.router.Get("/posts/{postId}", postHandler.HandleGet)
	s.router.Get("/posts/{postId}/comments", commentHandler.HandleList)

	s.router.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/me", authHandler.HandleMe)

		r.Post("/posts", postHandler.HandleCreate)
		r.Put("/posts/{postId}", postHandler.HandleUpdate)
		r.Delete("/posts/{postId}", postHandler.HandleDelete)

		r.Post("/posts/{postId}/comments", commentHandler.HandleCreate)
		r.Put("/posts/{postId}/comments/{commentId}", commentHandler.HandleUpdate)
		r.Delete("/posts/{postId}/comments/{commentId}", commentHandler.HandleDelete)

		r.Get("/like", likeHandler.HandleListLiked)
		r.Put("/{postId}/like", likeHandler.HandleToggle)
	})
}

// Handler exposes the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves HTTP until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds, close the
// database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
