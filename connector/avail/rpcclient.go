package avail

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/da-committer/da-committer/types"
)

// ExtrinsicBuilder produces signed, SCALE encoded extrinsics for the signing
// account. Key handling and Kate commitment construction live behind it.
type ExtrinsicBuilder interface {
	// AccountID returns the SS58 address of the signing account.
	AccountID() string
	BuildCommitments(data []byte) ([]byte, error)
	SubmitDataWithCommitments(data, commitments []byte, opts SubmitOptions) ([]byte, error)
}

var _ Client = (*RPCClient)(nil)

// RPCClient talks to an Avail node over JSON-RPC (http or ws).
type RPCClient struct {
	rpc     *rpc.Client
	builder ExtrinsicBuilder
}

func DialRPCClient(ctx context.Context, addr string, builder ExtrinsicBuilder) (*RPCClient, error) {
	if builder == nil {
		return nil, fmt.Errorf("an extrinsic builder is required to sign Avail transactions")
	}

	c, err := rpc.DialContext(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial Avail node at %s: %w", addr, err)
	}

	return NewRPCClient(c, builder), nil
}

func NewRPCClient(c *rpc.Client, builder ExtrinsicBuilder) *RPCClient {
	return &RPCClient{rpc: c, builder: builder}
}

func (c *RPCClient) AccountNonce(ctx context.Context) (uint64, error) {
	var nonce uint64
	if err := c.rpc.CallContext(ctx, &nonce, "system_accountNextIndex", c.builder.AccountID()); err != nil {
		return 0, err
	}

	return nonce, nil
}

type header struct {
	Number hexutil.Uint64 `json:"number"`
}

func (c *RPCClient) BestBlockNumber(ctx context.Context) (uint32, error) {
	var h *header
	if err := c.rpc.CallContext(ctx, &h, "chain_getHeader"); err != nil {
		return 0, err
	}
	if h == nil {
		return 0, fmt.Errorf("node returned no best header")
	}
	if uint64(h.Number) > uint64(^uint32(0)) {
		return 0, fmt.Errorf("block number %d overflows uint32", uint64(h.Number))
	}

	return uint32(h.Number), nil
}

func (c *RPCClient) BuildCommitments(data []byte) ([]byte, error) {
	cm, err := c.builder.BuildCommitments(data)
	if err != nil {
		return nil, types.ErrCommitment.Wrap(err.Error())
	}

	return cm, nil
}

func (c *RPCClient) SubmitDataWithCommitments(
	ctx context.Context,
	data, commitments []byte,
	opts SubmitOptions,
) (common.Hash, error) {
	ext, err := c.builder.SubmitDataWithCommitments(data, commitments, opts)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to build extrinsic: %w", err)
	}

	var txHash common.Hash
	if err := c.rpc.CallContext(ctx, &txHash, "author_submitExtrinsic", hexutil.Encode(ext)); err != nil {
		return common.Hash{}, err
	}

	return txHash, nil
}

func (c *RPCClient) TransactionState(ctx context.Context, txHash common.Hash, finalized bool) ([]TransactionState, error) {
	var states []TransactionState
	if err := c.rpc.CallContext(ctx, &states, "transaction_state", txHash, finalized); err != nil {
		return nil, err
	}

	return states, nil
}

func (c *RPCClient) Close() error {
	c.rpc.Close()

	return nil
}
