package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"wcag-ai/spendguard/pkg/audit"
	"wcag-ai/spendguard/pkg/config"
	"wcag-ai/spendguard/pkg/governor"
	"wcag-ai/spendguard/pkg/schedule"
)

// Server serves the governor's HTTP admin API.
type Server struct {
	config     *config.ServerConfig
	governor   *governor.Governor
	scheduler  *schedule.Scheduler
	auditStore audit.Store

	// overrideToken, when non-empty, is required in the Authorization
	// header of override requests.
	overrideToken string

	// metricsHandler serves /metrics; nil disables the endpoint.
	metricsHandler http.Handler

	httpServer   *http.Server
	shutdownOnce sync.Once
	logger       *slog.Logger
}

// Options contains the server's collaborators.
type Options struct {
	Config         *config.ServerConfig
	Governor       *governor.Governor
	Scheduler      *schedule.Scheduler
	AuditStore     audit.Store
	OverrideToken  string
	MetricsHandler http.Handler
}

// New creates a server. Config and Governor are required.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("server config is required")
	}
	if opts.Governor == nil {
		return nil, fmt.Errorf("governor is required")
	}

	return &Server{
		config:         opts.Config,
		governor:       opts.Governor,
		scheduler:      opts.Scheduler,
		auditStore:     opts.AuditStore,
		overrideToken:  opts.OverrideToken,
		metricsHandler: opts.MetricsHandler,
		logger:         slog.Default().With("component", "server"),
	}, nil
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("admin server listening", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down admin server")
		err = s.httpServer.Shutdown(shutdownCtx)
	})
	return err
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/charge", s.handleCharge)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/projection", s.handleProjection)
	mux.HandleFunc("POST /v1/override/reset", s.handleOverrideReset)
	mux.HandleFunc("GET /v1/audit", s.handleAudit)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	if s.metricsHandler != nil {
		mux.Handle("GET /metrics", s.metricsHandler)
	}

	return mux
}
