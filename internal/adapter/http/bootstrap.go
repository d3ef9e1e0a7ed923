package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"taskapp/internal/adapter/http/routes"
	"taskapp/internal/core/port"
	"taskapp/pkg/config"
	"taskapp/pkg/tracing"

	"go.uber.org/zap"
)

type Server struct {
	srv    *http.Server
	logger *config.Logger
}

func NewServer(repo port.TaskRepository, telemetry port.Telemetry, metrics *tracing.AppMetrics, logger *config.Logger, cfg *config.AppConfig) *Server {
	container := NewContainer(repo, telemetry, logger)

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		TaskHandler: container.TaskHandler,
	}, metrics, logger, cfg)

	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Logger.Info("Server starting", zap.String("addr", s.srv.Addr))

		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errCh
}
