// Package rest exposes the simulation service to the browser over JSON/HTTP.
// Handlers delegate to the gRPC service implementation, so both transports
// share validation, error mapping and response shapes.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
)

// Config holds server configuration
type Config struct {
	Port        int
	Log         zerolog.Logger
	Service     investsimv1.SimulationServiceServer
	APIToken    string
	CORSOrigins []string
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	service  investsimv1.SimulationServiceServer
	apiToken string
	port     int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "http").Logger(),
		service:  cfg.Service,
		apiToken: cfg.APIToken,
		port:     cfg.Port,
	}

	s.setupMiddleware(cfg.CORSOrigins)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", userIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/simulations", func(r chi.Router) {
			r.Post("/run", s.handleRunSimulation)
			r.Post("/", s.handleSaveSimulation)
			r.Get("/", s.handleListSimulations)
			r.Get("/{id}", s.handleGetSimulation)
			r.Delete("/{id}", s.handleDeleteSimulation)
			r.Post("/{id}/recompute", s.handleRecomputeSimulation)
		})

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/market/assets", s.handleListAssets)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
