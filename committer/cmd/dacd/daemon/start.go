package daemon

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/juju/fslock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/committer/service"
	"github.com/da-committer/da-committer/committer/store"
	"github.com/da-committer/da-committer/connector"
	"github.com/da-committer/da-committer/log"
	"github.com/da-committer/da-committer/metrics"
	"github.com/da-committer/da-committer/rollup"
	"github.com/da-committer/da-committer/version"
)

const lockFileName = "dacd.lock"

func NewStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the DA committer daemon.",
		Long:    `Start posting fragments to the configured DA layer and tracking them until shutdown.`,
		Example: fmt.Sprintf(`%s start --home /home/user/.dacd`, BinaryName),
		Args:    cobra.NoArgs,
		RunE:    startFn,
	}

	return cmd
}

func startFn(cmd *cobra.Command, _ []string) error {
	homePath, err := getHomePath(cmd)
	if err != nil {
		return fmt.Errorf("failed to load home flag: %w", err)
	}

	cfg, err := config.LoadConfig(homePath)
	if err != nil {
		return fmt.Errorf("failed to load config at %s: %w", homePath, err)
	}

	// one committer per home directory, two would double post every fragment
	lock := fslock.New(filepath.Join(homePath, lockFileName))
	if err := lock.TryLock(); err != nil {
		if errors.Is(err, fslock.ErrLocked) {
			return fmt.Errorf("another %s instance is running with home %s", BinaryName, homePath)
		}

		return fmt.Errorf("failed to acquire the home directory lock: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	logger, err := log.NewRootLoggerWithFile(config.LogFile(homePath), cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to load the logger: %w", err)
	}

	dbBackend, err := cfg.DatabaseConfig.GetDBBackend()
	if err != nil {
		return fmt.Errorf("failed to create db backend: %w", err)
	}

	submissionStore, err := store.NewSubmissionStore(dbBackend)
	if err != nil {
		_ = dbBackend.Close()

		return fmt.Errorf("failed to open the submission store: %w", err)
	}

	heights, err := rollup.NewClient(cfg.RollupConfig.RPCAddr, logger)
	if err != nil {
		_ = dbBackend.Close()

		return fmt.Errorf("failed to create rollup client: %w", err)
	}
	defer heights.Close()

	daConnector, err := connector.NewDAConnector(cmd.Context(), cfg, logger)
	if err != nil {
		_ = dbBackend.Close()

		return fmt.Errorf("failed to create %s connector: %w", cfg.DABackend, err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewCommitterMetrics(registry)

	app := service.NewCommitterApp(cfg, submissionStore, daConnector, heights, clock.New(), m, logger)
	server := service.NewCommitterServer(cfg, logger, app, dbBackend, registry)

	logger.Info("starting dacd",
		zap.String("home", homePath),
		zap.String("version", version.Get().String()),
	)

	return server.RunUntilShutdown(cmd.Context())
}
