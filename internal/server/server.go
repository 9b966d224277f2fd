// Package server wires the dashboard together and runs the HTTP server.
//
// COMPOSITION ROOT:
// New builds the whole dependency chain in one place:
//
//	sqlite.DB ─┬→ SnapshotService ─→ DashboardService ─→ DashboardHandler (HTML)
//	cache ─────┘                                      ↘ SnapshotHandler  (JSON)
//	sqlite.MaintainerDB → AuthService → AuthHandler
//
// Handlers only see service interfaces, services only see repository
// interfaces, and nothing below this package knows about configuration.
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

	"github.com/Atharva7126/community-dashboard/internal/auth"
	"github.com/Atharva7126/community-dashboard/internal/cache"
	"github.com/Atharva7126/community-dashboard/internal/config"
	"github.com/Atharva7126/community-dashboard/internal/handler"
	"github.com/Atharva7126/community-dashboard/internal/middleware"
	sqliteRepo "github.com/Atharva7126/community-dashboard/internal/repository/sqlite"
	"github.com/Atharva7126/community-dashboard/internal/service"
)

// shutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server owns the router and the resources behind it. The database and the
// cache are closed by Close, which Start calls on the way out.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	cache  cache.Cache
}

// New opens the database and the cache and registers all routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		cache:  openCache(cfg, logger),
	}

	if err := s.setupRoutes(); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// openCache connects to Redis when REDIS_URL is set. An unreachable Redis is
// not fatal: summaries are then computed on every request.
func openCache(cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.RedisURL == "" {
		return cache.NewNullCache()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, summary cache disabled", slog.String("error", err.Error()))
		return cache.NewNullCache()
	}
	return rc
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers middleware and routes.
//
// ROUTES:
//
//	GET    /healthz
//	GET    /                                           dashboard of the latest snapshot
//	GET    /snapshots/{id}                             dashboard of a snapshot
//	GET    /snapshots/{id}/contributors/{username}     contributor row click
//	GET    /api/snapshots                              list
//	GET    /api/snapshots/{id}                         full snapshot
//	GET    /api/snapshots/{id}/summary                 computed summary
//	GET    /api/snapshots/{id}/contributors/{username} click via API
//	POST   /api/snapshots                              publish      (maintainer)
//	DELETE /api/snapshots/{id}                         delete       (maintainer)
//	GET    /api/me                                     current user (maintainer)
//	POST   /auth/token                                 password login
//	POST   /auth/logout
//	GET    /auth/github/login, /auth/github/callback   OAuth
//
// Write and auth routes exist only when JWT_SECRET is set; the GitHub pair
// only when the OAuth app is configured too.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	snapshotService := service.NewSnapshotService(s.db, s.cache, s.logger)
	dashboardService := service.NewDashboardService(snapshotService, s.cache, s.config.SummaryTTL, s.logger)

	dashboardHandler := handler.NewDashboardHandler(dashboardService, s.logger)
	snapshotHandler := handler.NewSnapshotHandler(snapshotService, dashboardService, s.logger)

	s.router.Get("/healthz", handler.HandleHealth(s.db, s.logger))

	s.router.Get("/", dashboardHandler.HandleHome)
	s.router.Get("/snapshots/{id}", dashboardHandler.HandleSnapshot)
	s.router.Get("/snapshots/{id}/contributors/{username}", dashboardHandler.HandleContributor)

	var tokens *auth.TokenService
	var authHandler *handler.AuthHandler
	if s.config.AuthEnabled() {
		var err error
		tokens, err = auth.NewTokenServiceWithTTL(s.config.JWTSecret, s.config.TokenTTL)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}

		authService := service.NewAuthService(
			s.db.Maintainers(),
			tokens,
			auth.NewPasswordService(),
			service.AuthConfig{
				MaintainerLogins:  s.config.MaintainerLogins,
				AdminUsername:     s.config.AdminUsername,
				AdminPasswordHash: s.config.AdminPasswordHash,
			},
			s.logger,
		)

		// A nil *GitHubProvider inside the interface would not compare equal
		// to nil, so only assign a real one.
		var github handler.GitHubOAuth
		if s.config.GitHubEnabled() {
			github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
		}
		authHandler = handler.NewAuthHandler(authService, github, tokens.TTL(), s.logger)

		s.router.Route("/auth", func(r chi.Router) {
			if authService.PasswordLoginEnabled() {
				r.Post("/token", authHandler.HandlePasswordLogin)
			}
			r.Post("/logout", authHandler.HandleLogout)
			if github != nil {
				r.Get("/github/login", authHandler.HandleGitHubLogin)
				r.Get("/github/callback", authHandler.HandleGitHubCallback)
			}
		})
	} else {
		s.logger.Warn("JWT_SECRET not set, publishing is disabled")
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/snapshots", snapshotHandler.HandleList)
		r.Get("/snapshots/{id}", snapshotHandler.HandleGet)
		r.Get("/snapshots/{id}/summary", snapshotHandler.HandleSummary)
		r.Get("/snapshots/{id}/contributors/{username}", snapshotHandler.HandleContributor)

		if tokens == nil {
			return
		}
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/snapshots", snapshotHandler.HandlePublish)
			r.Delete("/snapshots/{id}", snapshotHandler.HandleDelete)
			r.Get("/me", authHandler.HandleMe)
		})
	})

	return nil
}

// Start serves until SIGINT/SIGTERM, drains in-flight requests for up to 30
// seconds and then closes the database and the cache.
func (s *Server) Start() error {
	defer s.Close()

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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Close releases the cache and the database.
func (s *Server) Close() error {
	return errors.Join(s.cache.Close(), s.db.Close())
}
