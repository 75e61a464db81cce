// Package api assembles the Octopart v2 mock server: fixture-backed Huma
// handlers behind the Echo middleware chain.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/donaldgifford/partsearch/internal/api/fixtures"
	"github.com/donaldgifford/partsearch/internal/api/handlers"
	mw "github.com/donaldgifford/partsearch/internal/api/middleware"
)

// ErrUnavailable is reported by Ready while the server is in maintenance.
var ErrUnavailable = errors.New("server in maintenance")

// Server is the mock Octopart API.
type Server struct {
	echo   *echo.Echo
	api    huma.API
	down   atomic.Bool
	apiKey string
	logger *slog.Logger

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithAPIKey requires every API call to carry apikey=key.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// WithLogger sets the request and panic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithTimeouts sets the HTTP server read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// New builds a server answering from catalog.
func New(catalog *fixtures.Catalog, opts ...Option) *Server {
	s := &Server{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = s.readTimeout
	e.Server.WriteTimeout = s.writeTimeout

	// Continue traces started by instrumented clients.
	e.Use(echo.WrapMiddleware(func(h http.Handler) http.Handler {
		return otelhttp.NewHandler(h, "octopart-mock")
	}))
	e.Use(mw.Recovery(s.logger))
	e.Use(mw.RequestLog(s.logger))
	e.Use(mw.Metrics())
	e.Use(mw.Maintenance(&s.down))
	e.Use(mw.APIKey(s.apiKey))
	e.Use(mw.Format())

	health := handlers.NewHealthHandler(s)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cfg := huma.DefaultConfig("Octopart v2 mock", "2.0.0")
	// Bodies are served as Octopart sends them, without $schema links.
	cfg.CreateHooks = nil
	s.api = humaecho.New(e, cfg)
	handlers.RegisterRoutes(s.api, handlers.NewCatalogHandler(catalog))
	handlers.RegisterAdminRoutes(s.api, handlers.NewAdminHandler(s))

	s.echo = e
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// API returns the Huma API, e.g. for exporting the OpenAPI document.
func (s *Server) API() huma.API {
	return s.api
}

// SetUnavailable switches maintenance mode. While set, API calls answer 503.
func (s *Server) SetUnavailable(down bool) {
	s.down.Store(down)
	s.logger.Info("maintenance mode changed", "unavailable", down)
}

// Unavailable reports whether maintenance mode is on.
func (s *Server) Unavailable() bool {
	return s.down.Load()
}

// Ready implements handlers.Readiness.
func (s *Server) Ready(_ context.Context) error {
	if s.down.Load() {
		return ErrUnavailable
	}
	return nil
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
