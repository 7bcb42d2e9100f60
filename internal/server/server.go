// Package server provides the HTTP server and routing for the dashboard API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/bonkdash/internal/config"
	"github.com/aristath/bonkdash/internal/di"
	alertshandlers "github.com/aristath/bonkdash/internal/modules/alerts/handlers"
	audiohandlers "github.com/aristath/bonkdash/internal/modules/audio/handlers"
	marketshandlers "github.com/aristath/bonkdash/internal/modules/markets/handlers"
	searchhandlers "github.com/aristath/bonkdash/internal/modules/search/handlers"
	socialhandlers "github.com/aristath/bonkdash/internal/modules/social/handlers"
	tokenshandlers "github.com/aristath/bonkdash/internal/modules/tokens/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container // DI container with all services
	Port      int
	DevMode   bool
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	db             Pinger
	systemHandlers *SystemHandlers
}

// Pinger checks that the cache database answers
type Pinger interface {
	QuickCheck(ctx context.Context) error
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	systemHandlers := NewSystemHandlers(
		cfg.Log,
		cfg.Config.DataDir,
		cfg.Config.CacheEnabled,
		cfg.Container.ClientDataDB,
		cfg.Container.ClientDataRepo,
		cfg.Container.CleanupJob,
	)

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg.Config,
		container:      cfg.Container,
		systemHandlers: systemHandlers,
	}
	if cfg.Container.ClientDataDB != nil {
		s.db = cfg.Container.ClientDataDB
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// Upstream calls are bounded by the HTTP client timeout, this caps the whole request
	s.router.Use(middleware.Timeout(60 * time.Second))

	// The dashboard frontend is served from a different origin
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	c := s.container
	defaultCoinID := s.cfg.DefaultCoinID

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Post("/cache/cleanup", s.systemHandlers.HandleCacheCleanup)
		})

		marketshandlers.NewHandler(c.MarketsService, s.log).RegisterRoutes(r)
		tokenshandlers.NewHandler(c.TokensService, defaultCoinID, s.log).RegisterRoutes(r)
		socialhandlers.NewHandler(c.SocialService, s.log).RegisterRoutes(r)
		searchhandlers.NewHandler(c.SearchService, s.log).RegisterRoutes(r)
		alertshandlers.NewHandler(c.AlertStore, c.TokensService, defaultCoinID, s.log).RegisterRoutes(r)
		audiohandlers.NewHandler(c.AudioCatalog, s.log).RegisterRoutes(r)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
