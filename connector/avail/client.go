package avail

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionState is one entry of the transaction_state RPC answer.
type TransactionState struct {
	BlockHash   common.Hash `json:"block_hash"`
	BlockHeight uint32      `json:"block_height"`
	TxHash      common.Hash `json:"tx_hash"`
	TxIndex     uint32      `json:"tx_index"`
	TxSuccess   bool        `json:"tx_success"`
	PalletIndex uint8       `json:"pallet_index"`
	CallIndex   uint8       `json:"call_index"`
	IsFinalized bool        `json:"is_finalized"`
}

type SubmitOptions struct {
	AppID uint32
	Nonce uint64
}

// Client is the subset of an Avail node client used by the connector.
type Client interface {
	// AccountNonce returns the next nonce of the signing account.
	AccountNonce(ctx context.Context) (uint64, error)
	BestBlockNumber(ctx context.Context) (uint32, error)
	// BuildCommitments computes the Kate commitments of a data payload.
	BuildCommitments(data []byte) ([]byte, error)
	// SubmitDataWithCommitments signs and sends a
	// data_availability.submit_data_with_commitments extrinsic.
	SubmitDataWithCommitments(ctx context.Context, data, commitments []byte, opts SubmitOptions) (common.Hash, error)
	// TransactionState looks the transaction up in the node's state index.
	TransactionState(ctx context.Context, txHash common.Hash, finalized bool) ([]TransactionState, error)
	Close() error
}
