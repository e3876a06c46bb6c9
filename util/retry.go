//nolint:revive
package util

import (
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// RPC retry policy shared by the DA and rollup clients: a few attempts with
// exponential backoff capped at a small delay. A tick never loops beyond it.
var (
	RtyAttNum  = uint(3)
	RtyAtt     = retry.Attempts(RtyAttNum)
	RtyDel     = retry.Delay(time.Second)
	RtyMaxDel  = retry.MaxDelay(3 * time.Second)
	RtyBackOff = retry.DelayType(retry.BackOffDelay)
	RtyErr     = retry.LastErrorOnly(true)
)

// RPCRetryOptions returns the retry options for one RPC named by op. Retries
// stop early when ctx is cancelled.
func RPCRetryOptions(logger *zap.Logger, op string, extra ...retry.Option) []retry.Option {
	opts := []retry.Option{
		RtyAtt, RtyDel, RtyMaxDel, RtyBackOff, RtyErr,
		retry.OnRetry(func(n uint, err error) {
			logger.Debug(
				"rpc call failed, retrying",
				zap.String("op", op),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", RtyAttNum),
				zap.Error(err),
			)
		}),
	}

	return append(opts, extra...)
}
