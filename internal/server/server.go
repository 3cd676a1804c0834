// Package server wires the application together: database, services,
// handlers, middleware, and routes, plus the HTTP server lifecycle.
// It is the composition root; every dependency is assembled here and
// nowhere else.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/contributor-cards/internal/auth"
	"github.com/sakif/contributor-cards/internal/config"
	"github.com/sakif/contributor-cards/internal/handler"
	"github.com/sakif/contributor-cards/internal/middleware"
	sqliteRepo "github.com/sakif/contributor-cards/internal/repository/sqlite"
	"github.com/sakif/contributor-cards/internal/service"
)

// Server owns the router and the resources that must be released on
// shutdown. The database connection is closed after in-flight requests
// drain so the WAL is flushed cleanly.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency chain: database, token services, OAuth
// providers, domain services, handlers, and routes. Each layer receives
// only the interfaces it needs.
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
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and registers every route.
//
// Route map:
//
//	GET    /auth/{provider}           → start OAuth flow
//	GET    /auth/{provider}/callback  → complete OAuth flow, set session cookie
//	POST   /logout                    → clear session cookie
//	GET    /auth/check                → credential probe            (auth)
//	GET    /user                      → caller's public profile     (auth)
//	GET    /cards                     → list caller's cards         (auth)
//	POST   /cards                     → create card                 (auth)
//	PUT    /cards/{cardId}            → partial update              (auth)
//	DELETE /cards/{cardId}            → delete card                 (auth)
//	GET    /internal/cards/{cardId}   → backend lookup (time token)
//	GET    /*                         → SPA static files
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS(s.config.CORSOrigins))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	timeTokens := auth.NewTimeTokenService(s.config.TokenSecret)

	providers := map[string]auth.Provider{
		"github": auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.CallbackURL("github"),
		),
		"ohmygpt": auth.NewOhMyGPTProvider(
			s.config.OhMyGPTClientID,
			s.config.OhMyGPTClientSecret,
			s.config.CallbackURL("ohmygpt"),
		),
	}

	authService := service.NewAuthService(s.db, tokens, s.logger)
	cardService := service.NewCardService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(
		providers,
		authService,
		s.config.FrontendOrigin,
		s.config.IsProduction(),
		s.logger,
	)
	cardHandler := handler.NewCardHandler(cardService, s.logger)
	internalHandler := handler.NewInternalHandler(cardService, timeTokens, s.logger)

	// Public auth routes
	s.router.Get("/auth/{provider}", authHandler.HandleLogin)
	s.router.Get("/auth/{provider}/callback", authHandler.HandleCallback)
	s.router.Post("/logout", authHandler.HandleLogout)

	// Authenticated routes
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/auth/check", authHandler.HandleCheck)
		r.Get("/user", authHandler.HandleUser)

		r.Get("/cards", cardHandler.HandleList)
		r.Post("/cards", cardHandler.HandleCreate)
		r.Put("/cards/{cardId}", cardHandler.HandleUpdate)
		r.Delete("/cards/{cardId}", cardHandler.HandleDelete)
	})

	// Server-to-server lookup, guarded by the time token instead of a session
	s.router.Get("/internal/cards/{cardId}", internalHandler.HandleGetCard)

	// Everything else is the SPA
	s.router.NotFound(handler.NewSPAHandler(s.config.StaticDir).ServeHTTP)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for
// up to 30 seconds, close the database.
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
			slog.String("database", s.config.DBPath),
			slog.String("environment", s.config.Environment),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
