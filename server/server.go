// Package server serves the dashboard to a browser.
//
// It is stateless: every request builds its own portfolio from the default
// one and the form values, then refreshes the prices.
package server

import (
	"context"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server configuration
type Config struct {
	Addr      string
	Log       zerolog.Logger
	Sources   *wealth.Sources
	Portfolio *wealth.Portfolio // default values of the form
	Timeout   time.Duration     // per request
	// Picks returns the suggestions displayed on the page, rule based when nil.
	Picks func(ctx context.Context) *renderer.Picks
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	sources   *wealth.Sources
	portfolio *wealth.Portfolio
	picks     func(ctx context.Context) *renderer.Picks
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		sources:   cfg.Sources,
		portfolio: cfg.Portfolio,
		picks:     cfg.Picks,
	}
	if s.portfolio == nil {
		s.portfolio = wealth.NewPortfolio(wealth.DefaultCurrency, wealth.M(1000, wealth.DefaultCurrency))
	}
	if s.sources == nil {
		s.sources = wealth.NewSources()
	}
	if s.picks == nil {
		s.picks = rulePicks
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s.setupMiddleware(timeout)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(timeout time.Duration) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(timeout))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handlePage)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/export.csv", s.handleExport)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/quotes/{symbol}", s.handleQuote)
	})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the HTTP server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
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
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func rulePicks(context.Context) *renderer.Picks {
	high, low := wealth.Picks(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	return &renderer.Picks{High: high, Low: low, Source: "rules"}
}
