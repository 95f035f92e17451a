// Package api implements the inlet HTTP surface: the webhook ingestion
// pipeline, the read-only query service, and the health and metrics
// endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mattjoyce/inlet/internal/message"
	"github.com/mattjoyce/inlet/internal/metrics"
)

// Config holds HTTP server configuration.
type Config struct {
	Listen string

	// WebhookSecret is the shared HMAC-SHA256 secret for POST /webhook.
	WebhookSecret string

	// MaxPageSize caps the limit parameter on GET /messages.
	MaxPageSize int

	// MaxBodySize is the maximum accepted webhook body size in bytes.
	MaxBodySize int64
}

// Server represents the inlet HTTP server.
type Server struct {
	config  Config
	store   *message.Store
	metrics *metrics.Registry
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new server instance. The metrics registry is injected so
// tests can use a fresh one per server.
func New(config Config, store *message.Store, reg *metrics.Registry, logger *slog.Logger) *Server {
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = 500
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	return &Server{
		config:  config,
		store:   store,
		metrics: reg,
		logger:  logger,
	}
}

// Start starts the HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("server starting", "listen", s.config.Listen)

	// Run server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(s.observabilityMiddleware)
	r.Use(middleware.Recoverer)

	r.Post("/webhook", s.handleWebhook)
	r.Get("/messages", s.handleMessages)
	r.Get("/stats", s.handleStats)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/health/live", s.handleHealthLive)
	r.Get("/health/ready", s.handleHealthReady)

	return r
}

// observabilityMiddleware emits one structured log line and one counter
// increment per request. The webhook handler attaches its outcome fields via
// the typed carrier injected here.
func (s *Server) observabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		ctx, wl := withWebhookLog(r.Context())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		latencyMS := float64(time.Since(start).Microseconds()) / 1000

		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency_ms", latencyMS,
			"remote_addr", r.RemoteAddr,
		}
		if wl.Result != "" {
			attrs = append(attrs,
				"message_id", wl.MessageID,
				"dup", wl.Dup,
				"result", wl.Result,
			)
		}
		s.logger.Info("request processed", attrs...)

		s.metrics.IncHTTPRequest(r.URL.Path, ww.Status())
		s.metrics.ObserveLatency(latencyMS)
	})
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response with a detail field.
func (s *Server) respondError(w http.ResponseWriter, status int, detail string) {
	s.respondJSON(w, status, ErrorResponse{Detail: detail})
}
