// Package server exposes enriched survey data over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"yashubustudio/sleepsurvey/survey"
)

// Config holds the server configuration
type Config struct {
	Host            string
	Port            int
	EnableMetrics   bool
	EnableCORS      bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            8080,
		EnableMetrics:   true,
		EnableCORS:      true,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

// ConfigFrom applies the persisted server settings on top of DefaultConfig.
func ConfigFrom(sc survey.ServerConfig) *Config {
	cfg := DefaultConfig()
	if sc.Host != "" {
		cfg.Host = sc.Host
	}
	if sc.Port != 0 {
		cfg.Port = sc.Port
	}
	cfg.EnableMetrics = !sc.DisableMetrics
	cfg.EnableCORS = !sc.DisableCORS
	return cfg
}

// Source provides raw survey tables.
type Source interface {
	Load(ctx context.Context) (*survey.Table, error)
	Refresh(ctx context.Context) (*survey.Table, error)
}

// Server serves enriched responses, summaries and pipeline outcomes.
type Server struct {
	config   *Config
	svc      *survey.Service
	source   Source
	logger   zerolog.Logger
	gatherer prometheus.Gatherer

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithGatherer serves metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New creates a server that enriches tables from src with svc.
func New(config *Config, svc *survey.Service, src Source, opts ...Option) (*Server, error) {
	if svc == nil {
		return nil, errors.New("server: nil survey service")
	}
	if src == nil {
		return nil, errors.New("server: nil source")
	}
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{
		config:   config,
		svc:      svc,
		source:   src,
		logger:   zerolog.Nop(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	if s.config.EnableCORS {
		router.Use(s.corsMiddleware)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.loggingMiddleware)

	api.HandleFunc("/responses", s.listResponses).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.getSummary).Methods(http.MethodGet)
	api.HandleFunc("/outcomes", s.getOutcomes).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.refresh).Methods(http.MethodPost)

	if s.config.EnableCORS {
		api.Methods(http.MethodOptions).HandlerFunc(s.handleOptions)
	}

	if s.config.EnableMetrics {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	router.HandleFunc("/health", s.healthCheck).Methods(http.MethodGet)
	return router
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.mu.Lock()
	s.server = srv
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Bool("metrics", s.config.EnableMetrics).
		Bool("cors", s.config.EnableCORS).
		Msg("Starting survey server")

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Server stopped unexpectedly")
		}
	}()
	return nil
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info().Msg("Shutting down server...")
	return srv.Shutdown(ctx)
}

// StartWithGracefulShutdown starts the server and blocks until SIGINT or
// SIGTERM, then drains in-flight requests.
func (s *Server) StartWithGracefulShutdown() error {
	if err := s.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	<-sigChan
	s.logger.Info().Msg("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info().Msg("Server shutdown complete")
	return nil
}

// GetAddr returns the bound address once started, the configured one otherwise.
func (s *Server) GetAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}
