package service

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/connector/api"
	"github.com/da-committer/da-committer/metrics"
	"github.com/da-committer/da-committer/types"
)

// FinalityTracker polls the DA layer for the status of in-flight submissions
// and persists their transitions.
type FinalityTracker struct {
	store     SubmissionStatusStore
	connector api.DAConnector
	cfg       *config.TrackerConfig
	clock     clock.Clock
	metrics   *metrics.CommitterMetrics
	logger    *zap.Logger
}

func NewFinalityTracker(
	store SubmissionStatusStore,
	connector api.DAConnector,
	cfg *config.TrackerConfig,
	clk clock.Clock,
	metrics *metrics.CommitterMetrics,
	logger *zap.Logger,
) *FinalityTracker {
	return &FinalityTracker{
		store:     store,
		connector: connector,
		cfg:       cfg,
		clock:     clk,
		metrics:   metrics,
		logger:    logger.With(zap.String("module", "finality_tracker")),
	}
}

// Run executes one status polling tick.
func (ft *FinalityTracker) Run(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "finality_tracker/run")
	defer func() {
		setStatusAndEnd(span, err)
	}()

	submissions, err := ft.store.NonTerminalSubmissions()
	if err != nil {
		return fmt.Errorf("%w: failed to get non-terminal submissions: %w", types.ErrStorage, err)
	}
	ft.metrics.RecordPendingSubmissions(len(submissions))
	span.SetAttributes(attribute.Int("pending", len(submissions)))
	if len(submissions) == 0 {
		return nil
	}

	var (
		updates           []types.StatusUpdate
		earliestFinalized time.Time
	)
	for _, sub := range submissions {
		if !sub.IsPersisted() {
			return fmt.Errorf("store returned a submission without id for tx %s", sub.TxHash)
		}

		reported, err := ft.connector.Status(ctx, sub)
		if err != nil {
			return fmt.Errorf("failed to get status of submission %d (tx %s): %w", *sub.ID, sub.TxHash, err)
		}

		next, ok := ft.transition(sub, reported)
		if !ok {
			continue
		}

		updates = append(updates, types.StatusUpdate{SubmissionID: *sub.ID, Status: next})
		if next.Kind == types.StatusFinalized && (earliestFinalized.IsZero() || sub.CreatedAt.Before(earliestFinalized)) {
			earliestFinalized = sub.CreatedAt
		}
	}

	if len(updates) == 0 {
		return nil
	}

	if err := ft.store.ApplyStatusUpdates(updates); err != nil {
		return fmt.Errorf("%w: failed to apply %d status updates: %w", types.ErrStorage, len(updates), err)
	}

	for _, u := range updates {
		ft.metrics.RecordStatusTransition(u.Status)
	}
	if !earliestFinalized.IsZero() {
		ft.metrics.RecordFinalization(ft.clock.Now(), earliestFinalized)
	}
	span.SetAttributes(attribute.Int("updated", len(updates)))

	return nil
}

// transition returns the status to persist for a reported status, or false
// when nothing has to be written.
func (ft *FinalityTracker) transition(sub *types.Submission, reported types.DispersalStatus) (types.DispersalStatus, bool) {
	if reported == sub.Status {
		return types.DispersalStatus{}, false
	}

	var next types.DispersalStatus
	switch reported.Kind {
	case types.StatusProcessing:
		return types.DispersalStatus{}, false
	case types.StatusConfirmed, types.StatusFinalized:
		next = reported
	default:
		next = types.Failed
	}

	if ft.cfg.RejectStatusRegression && isRegression(sub.Status, next) {
		ft.logger.Warn("ignoring status regression",
			zap.Uint64("submission_id", *sub.ID),
			zap.String("tx_hash", sub.TxHash.Hex()),
			zap.Stringer("stored", sub.Status),
			zap.Stringer("reported", reported),
		)

		return types.DispersalStatus{}, false
	}

	if reported.Kind == types.StatusOther {
		ft.logger.Warn("unknown DA status, marking submission as failed",
			zap.Uint64("submission_id", *sub.ID),
			zap.String("reason", reported.Reason),
		)
	}

	ft.logger.Info("submission status changed",
		zap.Uint64("submission_id", *sub.ID),
		zap.Uint32("fragment_id", uint32(sub.FragmentID)),
		zap.String("tx_hash", sub.TxHash.Hex()),
		zap.Stringer("from", sub.Status),
		zap.Stringer("to", next),
	)

	return next, true
}

// isRegression reports whether moving from stored to next goes backwards.
// Only submissions already seen on chain are guarded, so a processing
// submission can still fail.
func isRegression(stored, next types.DispersalStatus) bool {
	return stored.Rank() > types.Processing.Rank() && next.Rank() < stored.Rank()
}
