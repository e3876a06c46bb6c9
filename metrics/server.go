package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	svr    *http.Server
	logger *zap.Logger
}

// Start serves the given registry under /metrics on addr.
func Start(addr string, registry *prometheus.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		Registry: registry,
	}))

	s := &Server{
		svr: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}

	go func() {
		logger.Info("Metrics server is starting", zap.String("addr", addr))
		if err := s.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped unexpectedly", zap.Error(err))
		}
	}()

	return s
}

func (s *Server) Stop(ctx context.Context) {
	if err := s.svr.Shutdown(ctx); err != nil {
		s.logger.Error("failed to stop the metrics server", zap.Error(err))
	}
}
