// Package server hosts the HTTP API of the pricing service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/server/handler"
	"github.com/stenkjan/nest-haus-sub005/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port            int
	CORSOrigins     []string
	APIKey          string // protects mutating routes; if empty, auth is disabled
	RateLimit       int    // requests per client per RateLimitWindow; 0 disables
	RateLimitWindow time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health  *handler.HealthHandler
	Pricing *handler.PricingHandler
	Quote   *handler.QuoteHandler
	Sync    *handler.SyncHandler
}

// Server is the HTTP API server of the pricing service.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a Server with all routes registered on the ServeMux and
// the middleware chain (rate limiting, logging, CORS) applied. The quote and
// pricing reads are public; the manual sync trigger sits behind the API key.
func NewServer(cfg Config, handlers Handlers, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check (no auth required).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Snapshot reads.
	mux.HandleFunc("GET /api/pricing", handlers.Pricing.GetPricing)
	mux.HandleFunc("GET /api/pricing/info", handlers.Pricing.GetPricingInfo)
	mux.HandleFunc("GET /api/pricing/versions", handlers.Pricing.ListVersions)
	mux.HandleFunc("GET /api/pricing/fenster-sqm", handlers.Pricing.GetFensterSqm)
	mux.HandleFunc("GET /api/pricing/delta", handlers.Pricing.GetOptionDelta)

	// Quote computation.
	mux.HandleFunc("POST /api/quote", handlers.Quote.CalculateQuote)

	// Sync control, API-key protected.
	auth := middleware.Auth(cfg.APIKey)
	mux.Handle("POST /api/sync/trigger", auth(http.HandlerFunc(handlers.Sync.TriggerSync)))
	mux.Handle("GET /api/sync/runs", auth(http.HandlerFunc(handlers.Sync.ListRuns)))

	// Build the middleware chain.
	var h http.Handler = mux

	if limiter != nil && cfg.RateLimit > 0 {
		window := cfg.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		h = middleware.RateLimit(limiter, cfg.RateLimit, window)(h)
	}

	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
