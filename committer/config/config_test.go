package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/metrics"
)

func validConfig(t *testing.T) config.Config {
	return config.DefaultConfigWithHome(t.TempDir())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*config.Config) {},
		},
		{
			name:    "zero max failed cycles",
			mutate:  func(cfg *config.Config) { cfg.MaxFailedCycles = 0 },
			wantErr: "max failed cycles must be positive",
		},
		{
			name:    "zero submit interval",
			mutate:  func(cfg *config.Config) { cfg.SubmitterConfig.Interval = 0 },
			wantErr: "submitter configuration validation failed: submit interval must be positive, got 0s",
		},
		{
			name:    "zero batch size",
			mutate:  func(cfg *config.Config) { cfg.SubmitterConfig.BatchSize = 0 },
			wantErr: "submitter configuration validation failed: batch size must be positive, got 0",
		},
		{
			name:    "batch size exceeds maximum",
			mutate:  func(cfg *config.Config) { cfg.SubmitterConfig.BatchSize = config.MaxBatchSize + 1 },
			wantErr: "submitter configuration validation failed: batch size must not exceed 100, got 101",
		},
		{
			name:    "negative poll interval",
			mutate:  func(cfg *config.Config) { cfg.TrackerConfig.PollInterval = -time.Second },
			wantErr: "tracker configuration validation failed: finality poll interval must be positive, got -1s",
		},
		{
			name:    "missing tracker config",
			mutate:  func(cfg *config.Config) { cfg.TrackerConfig = nil },
			wantErr: "tracker config cannot be empty",
		},
		{
			name:    "unknown backend",
			mutate:  func(cfg *config.Config) { cfg.DABackend = "celestia" },
			wantErr: `unsupported DA backend "celestia"`,
		},
		{
			name:    "invalid inbox address",
			mutate:  func(cfg *config.Config) { cfg.EVMConfig.InboxAddress = "0x1234" },
			wantErr: `evm configuration validation failed: invalid inbox address "0x1234"`,
		},
		{
			name: "incomplete evm config is ignored with the avail backend",
			mutate: func(cfg *config.Config) {
				cfg.DABackend = config.DABackendAvail
				cfg.EVMConfig.RPCAddr = ""
			},
		},
		{
			name: "empty avail rpc address",
			mutate: func(cfg *config.Config) {
				cfg.DABackend = config.DABackendAvail
				cfg.AvailConfig.RPCAddr = ""
			},
			wantErr: "avail configuration validation failed: rpc address cannot be empty",
		},
		{
			name:    "empty rollup rpc address",
			mutate:  func(cfg *config.Config) { cfg.RollupConfig.RPCAddr = "" },
			wantErr: "rollup configuration validation failed: rpc address cannot be empty",
		},
		{
			name: "invalid metrics host",
			mutate: func(cfg *config.Config) {
				cfg.Metrics = &metrics.Config{Host: "localhost", Port: 2112}
			},
			wantErr: "metrics configuration validation failed: invalid host: localhost",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestNilConfig(t *testing.T) {
	var cfg *config.Config
	require.EqualError(t, cfg.Validate(), "config cannot be nil")
}

func TestLoadConfig(t *testing.T) {
	homePath := t.TempDir()

	_, err := config.LoadConfig(homePath)
	require.Error(t, err)

	defaultCfg := config.DefaultConfigWithHome(homePath)
	defaultCfg.SubmitterConfig.LookbackWindow = 4242
	defaultCfg.TrackerConfig.RejectStatusRegression = true
	fileParser := flags.NewParser(&defaultCfg, flags.Default)
	err = flags.NewIniParser(fileParser).WriteFile(config.CfgFile(homePath), flags.IniIncludeComments|flags.IniIncludeDefaults)
	require.NoError(t, err)

	cfg, err := config.LoadConfig(homePath)
	require.NoError(t, err)
	require.Equal(t, uint32(4242), cfg.SubmitterConfig.LookbackWindow)
	require.True(t, cfg.TrackerConfig.RejectStatusRegression)
	require.Equal(t, config.DataDir(homePath), cfg.DatabaseConfig.DBPath)
}

func TestGetDBBackend(t *testing.T) {
	cfg := config.DefaultDBConfigWithHomePath(t.TempDir())

	db, err := cfg.GetDBBackend()
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = os.Stat(cfg.DBPath)
	require.NoError(t, err)
}
