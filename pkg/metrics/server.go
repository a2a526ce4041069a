package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rx3lixir/search-connector/internal/logger"
)

// Server HTTP сервер для метрик Prometheus
type Server struct {
	server *http.Server
	logger logger.Logger
}

// NewServer создает новый сервер метрик
func NewServer(addr string, log logger.Logger) *Server {
	if addr == "" {
		addr = ":8091"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// Start блокируется до остановки сервера
func (s *Server) Start() error {
	s.logger.Infow("Starting metrics server", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// Shutdown грациозно останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down metrics server")
	return s.server.Shutdown(ctx)
}
