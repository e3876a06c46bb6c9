package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/committer/store"
	"github.com/da-committer/da-committer/connector/api"
	"github.com/da-committer/da-committer/metrics"
	"github.com/da-committer/da-committer/rollup"
	"github.com/da-committer/da-committer/types"
)

const (
	submitterComponent = "fragment_submitter"
	trackerComponent   = "finality_tracker"
)

// ticker is the single-tick entry point of an orchestrator.
type ticker interface {
	Run(ctx context.Context) error
}

// CommitterApp drives the fragment submitter and the finality tracker on
// their own intervals. Ticks of one orchestrator never overlap.
type CommitterApp struct {
	isStarted *atomic.Bool
	wg        sync.WaitGroup
	quit      chan struct{}
	cancel    context.CancelFunc

	cfg       *config.Config
	connector api.DAConnector
	submitter ticker
	tracker   ticker
	clock     clock.Clock
	metrics   *metrics.CommitterMetrics
	logger    *zap.Logger

	criticalErrChan chan *CriticalError
}

// NewCommitterApp wires both orchestrators on top of a single submission
// store.
func NewCommitterApp(
	cfg *config.Config,
	submissionStore *store.SubmissionStore,
	connector api.DAConnector,
	heights rollup.HeightSource,
	clk clock.Clock,
	m *metrics.CommitterMetrics,
	logger *zap.Logger,
) *CommitterApp {
	submitter := NewFragmentSubmitter(submissionStore, connector, heights, cfg.SubmitterConfig, clk, m, logger)
	tracker := NewFinalityTracker(submissionStore, connector, cfg.TrackerConfig, clk, m, logger)

	return newCommitterApp(cfg, connector, submitter, tracker, clk, m, logger)
}

func newCommitterApp(
	cfg *config.Config,
	connector api.DAConnector,
	submitter, tracker ticker,
	clk clock.Clock,
	m *metrics.CommitterMetrics,
	logger *zap.Logger,
) *CommitterApp {
	return &CommitterApp{
		isStarted:       atomic.NewBool(false),
		quit:            make(chan struct{}),
		cfg:             cfg,
		connector:       connector,
		submitter:       submitter,
		tracker:         tracker,
		clock:           clk,
		metrics:         m,
		logger:          logger.With(zap.String("module", "committer_app")),
		criticalErrChan: make(chan *CriticalError, 2),
	}
}

func (app *CommitterApp) Start() error {
	if app.isStarted.Swap(true) {
		return fmt.Errorf("the committer is already started")
	}

	app.logger.Info("starting the committer",
		zap.String("da_backend", app.cfg.DABackend),
		zap.Duration("submit_interval", app.cfg.SubmitterConfig.Interval),
		zap.Duration("finality_poll_interval", app.cfg.TrackerConfig.PollInterval),
	)

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	submitTicker := app.clock.Ticker(app.cfg.SubmitterConfig.Interval)
	trackTicker := app.clock.Ticker(app.cfg.TrackerConfig.PollInterval)

	app.wg.Add(2)
	go app.runLoop(ctx, submitterComponent, app.submitter, submitTicker)
	go app.runLoop(ctx, trackerComponent, app.tracker, trackTicker)

	app.logger.Info("the committer is successfully started")

	return nil
}

func (app *CommitterApp) Stop() error {
	if !app.isStarted.Swap(false) {
		return fmt.Errorf("the committer has already stopped")
	}

	app.logger.Info("stopping the committer")
	close(app.quit)
	app.cancel()
	app.wg.Wait()

	if err := app.connector.Close(); err != nil {
		return fmt.Errorf("failed to close the DA connector: %w", err)
	}

	app.logger.Info("the committer is successfully stopped")

	return nil
}

func (app *CommitterApp) IsRunning() bool {
	return app.isStarted.Load()
}

// CriticalErr delivers the error of a loop that gave up after
// MaxFailedCycles consecutive failures.
func (app *CommitterApp) CriticalErr() <-chan *CriticalError {
	return app.criticalErrChan
}

func (app *CommitterApp) runLoop(ctx context.Context, component string, t ticker, tick *clock.Ticker) {
	defer app.wg.Done()
	defer tick.Stop()

	var failedCycles uint32
	for {
		select {
		case <-tick.C:
			if err := t.Run(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				app.metrics.RecordFailedCycle(component)
				// only unreachable nodes or a broken store can stop the loop,
				// anything else is retried on the next tick
				if !types.IsNetwork(err) && !types.IsStorage(err) {
					app.logger.Warn("tick failed, retrying on the next tick",
						zap.String("component", component),
						zap.Error(err),
					)

					continue
				}
				failedCycles++
				app.logger.Warn("tick failed",
					zap.String("component", component),
					zap.Uint32("current_failures", failedCycles),
					zap.Error(err),
				)

				if failedCycles >= app.cfg.MaxFailedCycles {
					app.logger.Error(appTerminatingMsg, zap.String("component", component), zap.Error(err))
					app.criticalErrChan <- &CriticalError{
						err:       fmt.Errorf("reached %d consecutive failed cycles: %w", failedCycles, err),
						component: component,
					}

					return
				}

				continue
			}
			failedCycles = 0
			app.metrics.RecordSuccessfulTick(component, app.clock.Now())
		case <-app.quit:
			app.logger.Info("exiting loop", zap.String("component", component))

			return
		}
	}
}
