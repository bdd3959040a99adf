// Package server assembles the bridge's HTTP surface: routing, middleware,
// and listener lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/natbkgift/flowbiz-infra-n8n/internal/errors"
	"github.com/natbkgift/flowbiz-infra-n8n/internal/observability"
	"github.com/natbkgift/flowbiz-infra-n8n/internal/server/handlers"
	"github.com/natbkgift/flowbiz-infra-n8n/internal/server/middleware"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/ratelimit"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/registry"
	"github.com/natbkgift/flowbiz-infra-n8n/pkg/signature"
)

// Options carries the dependencies the route handlers need. Zero-value
// fields fall back to safe defaults (empty registry, signature enforcement
// disabled, no audit sink, no dispatcher) so tests can construct a server
// with only what they exercise.
type Options struct {
	Registry          *registry.Registry
	MaxTimeoutSeconds int
	RateLimiter       *ratelimit.PerClient
	SignaturePolicy   signature.Policy
	Dispatcher        handlers.Dispatcher
	AuditSink         handlers.AuditSink
	BuildInfo         handlers.BuildInfo
	Logger            *zap.Logger

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server is the bridge HTTP server.
type Server struct {
	host   string
	port   int
	router chi.Router
	httpd  *http.Server
}

// defaultMaxTimeoutSeconds caps timeout_seconds when Options leaves the
// policy unset.
const defaultMaxTimeoutSeconds = 3600

// New builds a server bound to host:port with all routes registered.
func New(host string, port int, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = &registry.Registry{}
	}
	if opts.MaxTimeoutSeconds <= 0 {
		opts.MaxTimeoutSeconds = defaultMaxTimeoutSeconds
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(observability.InstrumentHandler)

	r.NotFound(apperrors.NotFoundHandler)
	r.MethodNotAllowed(apperrors.MethodNotAllowedHandler)

	jobsHandler := handlers.NewJobsHandler(
		opts.Registry,
		opts.MaxTimeoutSeconds,
		opts.RateLimiter,
		opts.Dispatcher,
		opts.Logger,
	)
	callbacksHandler := handlers.NewCallbacksHandler(
		opts.SignaturePolicy,
		opts.AuditSink,
		opts.Logger,
	)

	r.Get("/healthz", handlers.HealthHandler(opts.BuildInfo))
	r.Get("/version", handlers.MetaHandler(opts.BuildInfo))
	r.Get("/metrics", observability.MetricsHandler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/meta", handlers.MetaHandler(opts.BuildInfo))
		r.Post("/jobs", jobsHandler.Create)
		r.Post("/callbacks/n8n", callbacksHandler.Receive)
	})

	srv := &Server{
		host:   host,
		port:   port,
		router: r,
	}
	srv.httpd = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
	return srv
}

// Handler returns the root HTTP handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured listen port.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpd.Addr
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	if err := s.httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpd.Shutdown(ctx)
}
