package config

import (
	"fmt"
	"time"
)

var (
	defaultSubmitInterval       = 12 * time.Second
	defaultBatchSize            = uint32(10)
	defaultLookbackWindow       = uint32(1000)
	defaultFinalityPollInterval = 12 * time.Second
)

// MaxBatchSize bounds the number of fragments selected in one tick. Each
// fragment is one transaction sharing a nonce range, so very large batches
// make a single stuck nonce block many fragments.
const MaxBatchSize = 100

type SubmitterConfig struct {
	Interval       time.Duration `long:"interval" description:"The interval between each fragment submission tick"`
	BatchSize      uint32        `long:"batchsize" description:"The maximum number of fragments submitted in one tick"`
	LookbackWindow uint32        `long:"lookbackwindow" description:"Fragments whose oldest rollup block is older than latest height minus this window are not submitted"`
}

func DefaultSubmitterConfig() SubmitterConfig {
	return SubmitterConfig{
		Interval:       defaultSubmitInterval,
		BatchSize:      defaultBatchSize,
		LookbackWindow: defaultLookbackWindow,
	}
}

func (c SubmitterConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("submit interval must be positive, got %v", c.Interval)
	}
	if c.BatchSize == 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size must not exceed %d, got %d", MaxBatchSize, c.BatchSize)
	}

	return nil
}

type TrackerConfig struct {
	PollInterval time.Duration `long:"pollinterval" description:"The interval between each status poll of in-flight submissions"`
	// RejectStatusRegression skips reports that move a submission backwards,
	// e.g. Confirmed to Processing after a reorg.
	RejectStatusRegression bool `long:"rejectstatusregression" description:"Ignore status reports that rank below the stored status"`
}

func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		PollInterval: defaultFinalityPollInterval,
	}
}

func (c TrackerConfig) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("finality poll interval must be positive, got %v", c.PollInterval)
	}

	return nil
}
