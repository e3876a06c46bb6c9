package connector

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/committer/config"
	"github.com/da-committer/da-committer/connector/api"
	"github.com/da-committer/da-committer/connector/avail"
	"github.com/da-committer/da-committer/connector/evm"
	"github.com/da-committer/da-committer/util"
)

type options struct {
	availBuilder avail.ExtrinsicBuilder
	ethClient    evm.EthClient
}

type Option func(*options)

// WithAvailExtrinsicBuilder sets the builder signing Avail extrinsics. The
// avail backend cannot be used without one.
func WithAvailExtrinsicBuilder(b avail.ExtrinsicBuilder) Option {
	return func(o *options) {
		o.availBuilder = b
	}
}

// WithEthClient makes the evm backend use the given client instead of
// dialing the configured endpoint.
func WithEthClient(c evm.EthClient) Option {
	return func(o *options) {
		o.ethClient = c
	}
}

// NewDAConnector builds the connector of the DA backend selected in the config.
func NewDAConnector(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (api.DAConnector, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch cfg.DABackend {
	case config.DABackendEVM:
		return newEVMConnector(ctx, cfg.EVMConfig, o, logger)
	case config.DABackendAvail:
		client, err := avail.DialRPCClient(ctx, cfg.AvailConfig.RPCAddr, o.availBuilder)
		if err != nil {
			return nil, fmt.Errorf("failed to create Avail rpc client: %w", err)
		}

		return avail.NewConnector(client, cfg.AvailConfig.ToConnectorConfig(), logger), nil
	default:
		return nil, fmt.Errorf("unsupported DA backend %q", cfg.DABackend)
	}
}

func newEVMConnector(ctx context.Context, cfg *config.EVMConfig, o *options, logger *zap.Logger) (api.DAConnector, error) {
	key, err := util.ParsePrivKeyHex(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("the evm backend needs a signing key: %w", err)
	}

	client := o.ethClient
	if client == nil {
		client, err = ethclient.DialContext(ctx, cfg.RPCAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to dial execution client at %s: %w", cfg.RPCAddr, err)
		}
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	c, err := evm.NewConnector(client, evm.NewLocalECDSASigner(chainID, key), cfg.ToConnectorConfig(), logger)
	if err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to create evm connector: %w", err)
	}

	return c, nil
}
