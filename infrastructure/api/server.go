// Package api provides the HTTP surface of the preference engine.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Kidkender/dating-ai-engine/application/service"
	"github.com/Kidkender/dating-ai-engine/infrastructure/api/middleware"
	v1 "github.com/Kidkender/dating-ai-engine/infrastructure/api/v1"
)

// Services bundles the application services the API exposes.
type Services struct {
	Users      *service.Users
	UserImages *service.UserImages
	Choices    *service.Choices
	Candidates *service.Candidates
	Recommend  *service.Recommend
	Pool       *service.Pool
}

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	addr       string
}

// NewServer creates a Server with all v1 routes mounted.
func NewServer(addr string, services Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logging(logger))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.UserHeader},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		// the pool endpoints are operator-facing and carry no user identity
		r.Mount("/pool", v1.NewPoolRouter(services.Pool, logger).Routes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity())
			r.Mount("/images", v1.NewImagesRouter(services.Users, services.UserImages, logger).Routes())
			r.Mount("/choices", v1.NewChoicesRouter(services.Users, services.Choices, logger).Routes())
			r.Mount("/candidates", v1.NewCandidatesRouter(services.Users, services.Candidates, logger).Routes())
			r.Mount("/recommendations", v1.NewRecommendationsRouter(services.Users, services.Recommend, logger).Routes())
		})
	})

	return &Server{
		router: router,
		addr:   addr,
		logger: logger,
	}
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.addr
}
