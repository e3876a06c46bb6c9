package api

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/da-committer/da-committer/types"
)

// PreparedTx is a fragment whose commitment has been built and which is ready
// to be sent with the given nonce.
type PreparedTx[T any] struct {
	Fragment types.BundleFragment
	Nonce    uint64
	Payload  T
}

// ExecuteFunc sends one prepared transaction and returns the resulting
// submission.
type ExecuteFunc[T any] func(ctx context.Context, tx PreparedTx[T]) (types.Submission, error)

// DispatchOrdered executes all prepared transactions concurrently and returns
// the accepted submissions in input order. Failed executions are logged and
// dropped, they never fail the whole dispatch.
func DispatchOrdered[T any](
	ctx context.Context,
	logger *zap.Logger,
	txs []PreparedTx[T],
	execute ExecuteFunc[T],
) []types.Submission {
	results := make([]*types.Submission, len(txs))

	g, gctx := errgroup.WithContext(ctx)
	for i := range txs {
		i := i
		g.Go(func() error {
			sub, err := execute(gctx, txs[i])
			if err != nil {
				logger.Warn("DA transaction failed, dropping fragment from the batch",
					zap.Uint32("fragment_id", uint32(txs[i].Fragment.ID)),
					zap.Uint64("nonce", txs[i].Nonce),
					zap.Error(err),
				)

				return nil
			}
			sub.FragmentID = txs[i].Fragment.ID
			sub.Nonce = txs[i].Nonce
			results[i] = &sub

			return nil
		})
	}
	// goroutines never return an error
	_ = g.Wait()

	submissions := make([]types.Submission, 0, len(txs))
	for _, r := range results {
		if r != nil {
			submissions = append(submissions, *r)
		}
	}

	return submissions
}

// AssignNonces turns the fragments that survived commitment construction into
// prepared transactions with contiguous nonces starting at base.
func AssignNonces[T any](base uint64, fragments []types.BundleFragment, payloads []T) []PreparedTx[T] {
	txs := make([]PreparedTx[T], 0, len(fragments))
	for i := range fragments {
		txs = append(txs, PreparedTx[T]{
			Fragment: fragments[i],
			Nonce:    base + uint64(i),
			Payload:  payloads[i],
		})
	}

	return txs
}
