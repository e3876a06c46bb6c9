package rollup

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/types"
	"github.com/da-committer/da-committer/util"
)

// HeightSource reports the latest rollup block height.
type HeightSource interface {
	LatestHeight(ctx context.Context) (uint32, error)
}

type blockNumberer interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

var _ HeightSource = (*Client)(nil)

// Client reads the rollup head from the rollup node's JSON-RPC endpoint.
type Client struct {
	ethClient blockNumberer
	closer    func()
	logger    *zap.Logger
}

func NewClient(rpcAddr string, logger *zap.Logger) (*Client, error) {
	ethClient, err := ethclient.Dial(rpcAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rollup node %s: %w", rpcAddr, err)
	}

	return &Client{
		ethClient: ethClient,
		closer:    ethClient.Close,
		logger:    logger.With(zap.String("module", "rollup_client")),
	}, nil
}

func (c *Client) LatestHeight(ctx context.Context) (uint32, error) {
	var height uint64
	if err := retry.Do(func() error {
		var err error
		height, err = c.ethClient.BlockNumber(ctx)

		return err
	}, util.RPCRetryOptions(c.logger, "rollup_block_number", retry.Context(ctx))...); err != nil {
		return 0, types.ErrNetwork.Wrapf("failed to get latest rollup height: %v", err)
	}

	if height > uint64(^uint32(0)) {
		return 0, fmt.Errorf("rollup height %d overflows uint32", height)
	}

	return uint32(height), nil
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}
