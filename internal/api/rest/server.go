package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/meridiangrc/governance-backend/internal/infrastructure/config"
)

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	config     *config.ServerConfig
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the API server around an assembled router.
func NewServer(cfg *config.ServerConfig, router http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		config: cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start serves until the context is canceled, then drains in-flight
// requests within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{Control: reusePort}
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("http server listen: %w", err)
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
