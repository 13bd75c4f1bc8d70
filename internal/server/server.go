package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/config"
	"github.com/jackzampolin/ocrstudio/internal/home"
	"github.com/jackzampolin/ocrstudio/internal/metrics"
	"github.com/jackzampolin/ocrstudio/internal/pipeline"
	"github.com/jackzampolin/ocrstudio/internal/server/endpoints"
	"github.com/jackzampolin/ocrstudio/internal/svcctx"
)

const (
	runHistoryLimit = 100
	metricsLimit    = 10000
)

// Server is the ocrstudio HTTP server.
// Services are wired on Start and rewired whenever the config file changes;
// runs and metrics survive a rewire.
type Server struct {
	httpServer *http.Server
	home       *home.Dir
	configMgr  *config.Manager
	logger     *slog.Logger

	runs    *pipeline.Registry
	metrics *metrics.Recorder

	// services holds all core services for context enrichment
	services atomic.Pointer[svcctx.Services]

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: server.host from config)
	Host string
	// Port is the port to listen on (default: server.port from config)
	Port string
	// Home is the ocrstudio home directory
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	defaults := config.DefaultConfig().Server
	if cfg.ConfigManager != nil {
		defaults = cfg.ConfigManager.Get().Server
	}
	if cfg.Host == "" {
		cfg.Host = defaults.Host
	}
	if cfg.Port == "" {
		cfg.Port = defaults.Port
	}

	s := &Server{
		home:      cfg.Home,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		runs:      pipeline.NewRegistry(runHistoryLimit),
		metrics:   metrics.NewRecorder(metricsLimit),
	}

	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			if !s.IsRunning() {
				return
			}
			if err := s.rewire(context.Background(), c); err != nil {
				s.logger.Error("failed to rewire services, keeping previous", "error", err)
				return
			}
			s.logger.Info("services rewired from config")
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 30 * time.Minute, // runs are synchronous
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start wires services and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.home.EnsureExists(); err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to prepare home directory: %w", err)
	}

	s.logger.Info("wiring services", "home", s.home.Path())
	if err := s.rewire(ctx, s.currentConfig()); err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to wire services: %w", err)
	}

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown gracefully stops the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Services returns the currently wired services, or nil before Start.
func (s *Server) Services() *svcctx.Services {
	return s.services.Load()
}

// Runs returns the run registry shared across rewires.
func (s *Server) Runs() *pipeline.Registry {
	return s.runs
}

func (s *Server) currentConfig() *config.Config {
	if s.configMgr != nil {
		return s.configMgr.Get()
	}
	return config.DefaultConfig()
}

// rewire builds a fresh service set and swaps it in. In-flight requests
// keep the set they started with.
func (s *Server) rewire(ctx context.Context, cfg *config.Config) error {
	svcs, err := svcctx.Build(ctx, svcctx.BuildOptions{
		Config:  cfg,
		Home:    s.home,
		Logger:  s.logger,
		Runs:    s.runs,
		Metrics: s.metrics,
	})
	if err != nil {
		return err
	}
	s.services.Store(svcs)
	return nil
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svcs := s.services.Load(); svcs != nil {
			ctx = svcctx.WithServices(ctx, svcs)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures services are wired.
// Returns 503 Service Unavailable otherwise.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services.Load() == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
