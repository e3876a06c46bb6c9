package service

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/connector/api"
	"github.com/da-committer/da-committer/metrics"
	"github.com/da-committer/da-committer/rollup"
	"github.com/da-committer/da-committer/types"
)

// FragmentSubmitter selects the oldest unsubmitted fragments inside the
// lookback window, posts them to the DA layer and records the resulting
// submissions.
type FragmentSubmitter struct {
	store     FragmentStore
	connector api.DAConnector
	heights   rollup.HeightSource
	cfg       *config.SubmitterConfig
	clock     clock.Clock
	metrics   *metrics.CommitterMetrics
	logger    *zap.Logger
}

func NewFragmentSubmitter(
	store FragmentStore,
	connector api.DAConnector,
	heights rollup.HeightSource,
	cfg *config.SubmitterConfig,
	clk clock.Clock,
	metrics *metrics.CommitterMetrics,
	logger *zap.Logger,
) *FragmentSubmitter {
	return &FragmentSubmitter{
		store:     store,
		connector: connector,
		heights:   heights,
		cfg:       cfg,
		clock:     clk,
		metrics:   metrics,
		logger:    logger.With(zap.String("module", "fragment_submitter")),
	}
}

// Run executes one submission tick.
func (fs *FragmentSubmitter) Run(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "fragment_submitter/run")
	defer func() {
		setStatusAndEnd(span, err)
	}()

	latest, err := fs.heights.LatestHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to get latest rollup height: %w", err)
	}

	floor := types.LookbackFloor(latest, fs.cfg.LookbackWindow)
	fragments, err := fs.store.OldestUnsubmittedFragments(floor, int(fs.cfg.BatchSize))
	if err != nil {
		return fmt.Errorf("%w: failed to select fragments: %w", types.ErrStorage, err)
	}
	span.SetAttributes(
		attribute.Int64("floor", int64(floor)),
		attribute.Int("selected", len(fragments)),
	)

	if len(fragments) == 0 {
		fs.metrics.RecordCurrentHeightToCommit(floor)
		fs.logger.Debug("no fragments to submit", zap.Uint32("floor", floor))

		return nil
	}
	fs.metrics.RecordCurrentHeightToCommit(types.OldestBlock(fragments))

	fs.logger.Info("submitting fragments",
		zap.Int("batch_size", len(fragments)),
		zap.Int("first_fragment_size", fragments[0].Size()),
		zap.Uint32("floor", floor),
	)

	submissions, err := fs.connector.Submit(ctx, fragments)
	if err != nil {
		return fmt.Errorf("failed to submit fragments to the DA layer: %w", err)
	}

	ids := types.FragmentIDs(fragments)
	if len(submissions) == 0 {
		fs.metrics.RecordSubmittedFragments(0, len(fragments))

		return types.ErrNothingSubmitted.Wrapf("fragments %v", ids)
	}

	inBatch := make(map[types.FragmentID]struct{}, len(ids))
	for _, id := range ids {
		inBatch[id] = struct{}{}
	}
	for _, sub := range submissions {
		if _, ok := inBatch[sub.FragmentID]; !ok {
			return fmt.Errorf("DA connector returned a submission for fragment %d which is not in the batch %v", sub.FragmentID, ids)
		}
	}

	submissionIDs, err := fs.store.RecordSubmissions(submissions, fs.clock.Now())
	if err != nil {
		return fmt.Errorf("%w: failed to record submissions of fragments %v: %w", types.ErrStorage, ids, err)
	}
	if len(submissionIDs) != len(submissions) {
		return fmt.Errorf("%w: store returned %d ids for %d submissions", types.ErrStorage, len(submissionIDs), len(submissions))
	}
	for i, sub := range submissions {
		fs.logger.Info("submitted fragment",
			zap.Uint32("fragment_id", uint32(sub.FragmentID)),
			zap.String("tx_hash", sub.TxHash.Hex()),
			zap.Uint64("submission_id", submissionIDs[i]),
			zap.Uint64("nonce", sub.Nonce),
		)
	}

	fs.metrics.RecordSubmittedFragments(len(submissions), len(fragments))
	span.SetAttributes(attribute.Int("submitted", len(submissions)))

	return nil
}
