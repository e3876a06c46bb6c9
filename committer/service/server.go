package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/kvdb"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/metrics"
)

const metricsShutdownTimeout = 5 * time.Second

// Server runs the committer app next to the metrics endpoint and owns the
// database handle for the lifetime of the process.
type Server struct {
	started int32

	cfg      *config.Config
	logger   *zap.Logger
	app      *CommitterApp
	db       kvdb.Backend
	registry *prometheus.Registry
}

func NewCommitterServer(cfg *config.Config, l *zap.Logger, app *CommitterApp, db kvdb.Backend, registry *prometheus.Registry) *Server {
	return &Server{
		cfg:      cfg,
		logger:   l,
		app:      app,
		db:       db,
		registry: registry,
	}
}

// RunUntilShutdown starts the committer and blocks until the context is
// canceled or one of the loops gives up.
func (s *Server) RunUntilShutdown(ctx context.Context) error {
	if atomic.AddInt32(&s.started, 1) != 1 {
		return nil
	}

	promAddr, err := s.cfg.Metrics.Address()
	if err != nil {
		return fmt.Errorf("failed to get prometheus address: %w", err)
	}
	metricsServer := metrics.Start(promAddr, s.registry, s.logger)

	defer func() {
		s.logger.Info("Shutdown complete")
	}()

	defer func() {
		s.logger.Info("Closing database...")
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database", zap.Error(err))
		} else {
			s.logger.Info("Database closed")
		}

		stopCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		metricsServer.Stop(stopCtx)
		s.logger.Info("Metrics server stopped")
	}()

	if err := s.app.Start(); err != nil {
		return fmt.Errorf("failed to start the committer app: %w", err)
	}
	defer func() {
		if err := s.app.Stop(); err != nil {
			s.logger.Error("Failed to stop the committer app", zap.Error(err))
		}
	}()

	s.logger.Info("DA committer daemon is fully active!")

	select {
	case <-ctx.Done():
		return nil
	case critErr := <-s.app.CriticalErr():
		return critErr
	}
}
