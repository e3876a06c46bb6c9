package config

import (
	"fmt"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap/zapcore"

	"github.com/da-committer/da-committer/metrics"
	"github.com/da-committer/da-committer/util"
)

// Constants for config default values
const (
	defaultLogLevel        = zapcore.InfoLevel
	defaultLogFormat       = "console"
	defaultLogDirname      = "logs"
	defaultLogFilename     = "dacd.log"
	defaultConfigFileName  = "dacd.conf"
	defaultDataDirname     = "data"
	defaultDABackend       = DABackendEVM
	defaultMaxFailedCycles = 10

	DABackendEVM   = "evm"
	DABackendAvail = "avail"
)

var (
	//   C:\Users\<username>\AppData\Local\Dacd on Windows
	//   ~/.dacd on Linux
	//   ~/Library/Application Support/Dacd on MacOS
	DefaultDacdDir = btcutil.AppDataDir("dacd", false)

	DefaultDataDir = DataDir(DefaultDacdDir)
)

// Config is the main config for the dacd cli command
type Config struct {
	LogLevel  string `long:"loglevel" description:"Logging level for all subsystems" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal"`
	LogFormat string `long:"logformat" description:"Format of the log output" choice:"console" choice:"json" choice:"logfmt"`
	// DABackend selects the DA layer the committer posts to. Only one backend
	// is active per process.
	DABackend       string `long:"dabackend" description:"The DA layer fragments are posted to" choice:"evm" choice:"avail"`
	MaxFailedCycles uint32 `long:"maxfailedcycles" description:"The number of consecutive network or storage failures of a loop after which the committer exits"`

	SubmitterConfig *SubmitterConfig `group:"submitter" namespace:"submitter"`

	TrackerConfig *TrackerConfig `group:"tracker" namespace:"tracker"`

	DatabaseConfig *DBConfig `group:"dbconfig" namespace:"dbconfig"`

	EVMConfig *EVMConfig `group:"evm" namespace:"evm"`

	AvailConfig *AvailConfig `group:"avail" namespace:"avail"`

	RollupConfig *RollupConfig `group:"rollup" namespace:"rollup"`

	Metrics *metrics.Config `group:"metrics" namespace:"metrics"`
}

func DefaultConfigWithHome(homePath string) Config {
	submitterCfg := DefaultSubmitterConfig()
	trackerCfg := DefaultTrackerConfig()
	evmCfg := DefaultEVMConfig()
	availCfg := DefaultAvailConfig()
	rollupCfg := DefaultRollupConfig()
	cfg := Config{
		LogLevel:        defaultLogLevel.String(),
		LogFormat:       defaultLogFormat,
		DABackend:       defaultDABackend,
		MaxFailedCycles: defaultMaxFailedCycles,
		SubmitterConfig: &submitterCfg,
		TrackerConfig:   &trackerCfg,
		DatabaseConfig:  DefaultDBConfigWithHomePath(homePath),
		EVMConfig:       &evmCfg,
		AvailConfig:     &availCfg,
		RollupConfig:    &rollupCfg,
		Metrics:         metrics.DefaultConfig(),
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	return cfg
}

func DefaultConfig() Config {
	return DefaultConfigWithHome(DefaultDacdDir)
}

func CfgFile(homePath string) string {
	return filepath.Join(homePath, defaultConfigFileName)
}

func LogDir(homePath string) string {
	return filepath.Join(homePath, defaultLogDirname)
}

func LogFile(homePath string) string {
	return filepath.Join(LogDir(homePath), defaultLogFilename)
}

func DataDir(homePath string) string {
	return filepath.Join(homePath, defaultDataDirname)
}

// LoadConfig initializes and parses the config using a config file.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Load configuration file overwriting defaults with any specified options
//  3. Validate the result
func LoadConfig(homePath string) (*Config, error) {
	// The home directory is required to have a configuration file with a specific name
	// under it.
	cfgFile := CfgFile(homePath)
	if !util.FileExists(cfgFile) {
		return nil, fmt.Errorf("specified config file does "+
			"not exist in %s", cfgFile)
	}

	cfg := DefaultConfigWithHome(homePath)
	fileParser := flags.NewParser(&cfg, flags.Default)
	if err := flags.NewIniParser(fileParser).ParseFile(cfgFile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the given configuration to be sane. This makes sure no
// illegal values or a combination of values are set.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if cfg.MaxFailedCycles == 0 {
		return fmt.Errorf("max failed cycles must be positive")
	}

	if cfg.SubmitterConfig == nil {
		return fmt.Errorf("submitter config cannot be empty")
	}
	if err := cfg.SubmitterConfig.Validate(); err != nil {
		return fmt.Errorf("submitter configuration validation failed: %w", err)
	}

	if cfg.TrackerConfig == nil {
		return fmt.Errorf("tracker config cannot be empty")
	}
	if err := cfg.TrackerConfig.Validate(); err != nil {
		return fmt.Errorf("tracker configuration validation failed: %w", err)
	}

	if cfg.DatabaseConfig == nil {
		return fmt.Errorf("database config cannot be empty")
	}
	if err := cfg.DatabaseConfig.Validate(); err != nil {
		return fmt.Errorf("database configuration validation failed: %w", err)
	}

	// only the selected backend has to be complete
	switch cfg.DABackend {
	case DABackendEVM:
		if cfg.EVMConfig == nil {
			return fmt.Errorf("evm config cannot be empty")
		}
		if err := cfg.EVMConfig.Validate(); err != nil {
			return fmt.Errorf("evm configuration validation failed: %w", err)
		}
	case DABackendAvail:
		if cfg.AvailConfig == nil {
			return fmt.Errorf("avail config cannot be empty")
		}
		if err := cfg.AvailConfig.Validate(); err != nil {
			return fmt.Errorf("avail configuration validation failed: %w", err)
		}
	default:
		return fmt.Errorf("unsupported DA backend %q", cfg.DABackend)
	}

	if cfg.RollupConfig == nil {
		return fmt.Errorf("rollup config cannot be empty")
	}
	if err := cfg.RollupConfig.Validate(); err != nil {
		return fmt.Errorf("rollup configuration validation failed: %w", err)
	}

	if cfg.Metrics == nil {
		return fmt.Errorf("metrics configuration cannot be empty")
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics configuration validation failed: %w", err)
	}

	return nil
}
