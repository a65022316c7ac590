// Package api exposes the dispatch engine over HTTP: a synchronous
// dispatch endpoint, command discovery, a live event stream and the
// Prometheus scrape endpoint.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ProfessorXZ/Headquarters/internal/command"
	"github.com/ProfessorXZ/Headquarters/internal/events"
	"github.com/ProfessorXZ/Headquarters/internal/exec"
)

// Dispatcher is the queue surface the API needs.
type Dispatcher interface {
	Submit(text string, env map[string]any, cb exec.Callback) (uuid.UUID, error)
}

// CommandLister lists registered commands for discovery.
type CommandLister interface {
	Commands() []*command.Command
}

// Config holds API server configuration.
type Config struct {
	Listen string
	// APIKey is the bearer token required on /v1 routes. Empty disables
	// the protected routes entirely.
	APIKey string
	// SubmitTimeout caps how long a synchronous dispatch waits for its
	// callback.
	SubmitTimeout time.Duration
	// MaxConcurrentSync bounds in-flight synchronous dispatches.
	MaxConcurrentSync int
}

// Server is the HTTP API server.
type Server struct {
	config    Config
	queue     Dispatcher
	commands  CommandLister
	hub       *events.Hub
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time
	syncSem   chan struct{}
}

// New creates an API server. hub may be nil; the event stream then serves
// an empty feed.
func New(config Config, queue Dispatcher, commands CommandLister, hub *events.Hub, logger *slog.Logger) *Server {
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = 30 * time.Second
	}
	if config.MaxConcurrentSync <= 0 {
		config.MaxConcurrentSync = 10
	}
	return &Server{
		config:    config,
		queue:     queue,
		commands:  commands,
		hub:       hub,
		logger:    logger,
		startedAt: time.Now(),
		syncSem:   make(chan struct{}, config.MaxConcurrentSync),
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.config.SubmitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("api server starting", "listen", s.config.Listen)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("api server shutting down")
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

// Routes builds the HTTP router. Exported for httptest use.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// Unauthenticated ops endpoints.
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Protected API.
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/v1/dispatch", s.handleDispatch)
		r.Get("/v1/commands", s.handleCommands)
		r.Get("/v1/events", s.handleEvents)
	})

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
