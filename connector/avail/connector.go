package avail

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/connector/api"
	"github.com/da-committer/da-committer/types"
	"github.com/da-committer/da-committer/util"
)

var _ api.DAConnector = (*Connector)(nil)

const (
	// DefaultGraceWindow is the number of blocks during which a submission
	// unknown to the node is still considered in flight.
	DefaultGraceWindow = uint32(5)
	DefaultAppID       = uint32(0)
)

type Config struct {
	AppID       uint32
	GraceWindow uint32
}

func DefaultConfig() Config {
	return Config{
		AppID:       DefaultAppID,
		GraceWindow: DefaultGraceWindow,
	}
}

// Connector posts fragments to Avail as submit_data_with_commitments
// extrinsics and resolves their status from the node's transaction state.
type Connector struct {
	client Client
	cfg    Config
	logger *zap.Logger
}

func NewConnector(client Client, cfg Config, logger *zap.Logger) *Connector {
	return &Connector{
		client: client,
		cfg:    cfg,
		logger: logger.With(zap.String("module", "avail_connector")),
	}
}

type commitment []byte

func (c *Connector) Submit(ctx context.Context, fragments []types.BundleFragment) ([]types.Submission, error) {
	if len(fragments) == 0 {
		return nil, types.ErrEmptyBatch
	}

	var nonce uint64
	if err := retry.Do(func() error {
		var err error
		nonce, err = c.client.AccountNonce(ctx)

		return err
	}, util.RPCRetryOptions(c.logger, "account_nonce", retry.Context(ctx))...); err != nil {
		return nil, types.ErrNetwork.Wrapf("failed to get account nonce on Avail: %v", err)
	}

	kept := make([]types.BundleFragment, 0, len(fragments))
	commitments := make([]commitment, 0, len(fragments))
	for _, f := range fragments {
		cm, err := c.client.BuildCommitments(f.Data)
		if err != nil {
			c.logger.Warn("failed to build DA commitment, dropping fragment from the batch",
				zap.Uint32("fragment_id", uint32(f.ID)),
				zap.Int("size", f.Size()),
				zap.Error(err),
			)

			continue
		}
		kept = append(kept, f)
		commitments = append(commitments, cm)
	}
	if len(kept) == 0 {
		return []types.Submission{}, nil
	}

	var bestBlock uint32
	if err := retry.Do(func() error {
		var err error
		bestBlock, err = c.client.BestBlockNumber(ctx)

		return err
	}, util.RPCRetryOptions(c.logger, "best_block_number", retry.Context(ctx))...); err != nil {
		return nil, types.ErrNetwork.Wrapf("could not get best block number in Avail: %v", err)
	}

	txs := api.AssignNonces(nonce, kept, commitments)
	submissions := api.DispatchOrdered(ctx, c.logger, txs,
		func(ctx context.Context, tx api.PreparedTx[commitment]) (types.Submission, error) {
			txHash, err := c.client.SubmitDataWithCommitments(ctx, tx.Fragment.Data, tx.Payload, SubmitOptions{
				AppID: c.cfg.AppID,
				Nonce: tx.Nonce,
			})
			if err != nil {
				return types.Submission{}, fmt.Errorf("avail transaction submission failed: %w", err)
			}

			return types.NewSubmission(tx.Fragment.ID, txHash, bestBlock, tx.Nonce), nil
		})

	c.logger.Debug("dispatched fragments to Avail",
		zap.Int("requested", len(fragments)),
		zap.Int("committed", len(kept)),
		zap.Int("accepted", len(submissions)),
		zap.Uint64("nonce_base", nonce),
		zap.Uint32("best_block", bestBlock),
	)

	return submissions, nil
}

// Status maps the node's (finalized, success) flags to a dispersal status. A
// transaction the node does not know yet stays processing for GraceWindow
// blocks after the block recorded at submission time.
func (c *Connector) Status(ctx context.Context, submission *types.Submission) (types.DispersalStatus, error) {
	var states []TransactionState
	if err := retry.Do(func() error {
		var err error
		states, err = c.client.TransactionState(ctx, submission.TxHash, false)

		return err
	}, util.RPCRetryOptions(c.logger, "transaction_state", retry.Context(ctx))...); err != nil {
		return types.DispersalStatus{}, types.ErrNetwork.Wrapf("avail transaction state query failed for %s: %v", submission.TxHash, err)
	}

	if len(states) > 0 {
		state := states[0]
		switch {
		case state.IsFinalized && state.TxSuccess:
			return types.Finalized, nil
		case !state.IsFinalized && state.TxSuccess:
			return types.Confirmed, nil
		default:
			return types.Failed, nil
		}
	}

	var bestBlock uint32
	if err := retry.Do(func() error {
		var err error
		bestBlock, err = c.client.BestBlockNumber(ctx)

		return err
	}, util.RPCRetryOptions(c.logger, "best_block_number", retry.Context(ctx))...); err != nil {
		return types.DispersalStatus{}, types.ErrNetwork.Wrapf("failed to get latest block number on Avail: %v", err)
	}

	if withinGraceWindow(bestBlock, submission.BlockNumber, c.cfg.GraceWindow) {
		return types.Processing, nil
	}

	c.logger.Debug("transaction not found past the grace window",
		zap.String("tx_hash", submission.TxHash.Hex()),
		zap.Uint32("submitted_at", submission.BlockNumber),
		zap.Uint32("best_block", bestBlock),
	)

	return types.Failed, nil
}

func (c *Connector) Close() error {
	return c.client.Close()
}

func withinGraceWindow(best, submittedAt, window uint32) bool {
	if best <= submittedAt {
		return true
	}

	return best-submittedAt <= window
}
