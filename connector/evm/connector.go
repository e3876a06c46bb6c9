package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/consensus/misc/eip4844"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
	ethrpc "github.com/ethereum/go-ethereum/rpc"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/connector/api"
	"github.com/da-committer/da-committer/types"
	"github.com/da-committer/da-committer/util"
)

var _ api.DAConnector = (*Connector)(nil)

const (
	// DefaultProbeDepth is the number of blocks after the recorded submission
	// height that are scanned for the transaction.
	DefaultProbeDepth         = uint32(3)
	DefaultFinalizedCacheSize = 256
	DefaultGasLimit           = uint64(21_000)

	defaultTipCapWei = 2_000_000_000
)

type Config struct {
	// Inbox is the address blob transactions are sent to.
	Inbox              common.Address
	ProbeDepth         uint32
	FinalizedCacheSize int
	GasLimit           uint64
}

func DefaultConfig() Config {
	return Config{
		ProbeDepth:         DefaultProbeDepth,
		FinalizedCacheSize: DefaultFinalizedCacheSize,
		GasLimit:           DefaultGasLimit,
	}
}

// Connector posts fragments as EIP-4844 blob transactions and resolves their
// status by scanning the blocks following the recorded submission height.
type Connector struct {
	client EthClient
	signer Signer
	cfg    Config
	logger *zap.Logger

	// blocks at or below the finalized height never change
	finalizedBlocks *lru.Cache[uint64, *ethtypes.Block]
}

func NewConnector(client EthClient, signer Signer, cfg Config, logger *zap.Logger) (*Connector, error) {
	if cfg.FinalizedCacheSize <= 0 {
		cfg.FinalizedCacheSize = DefaultFinalizedCacheSize
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultGasLimit
	}

	cache, err := lru.New[uint64, *ethtypes.Block](cfg.FinalizedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create finalized block cache: %w", err)
	}

	return &Connector{
		client:          client,
		signer:          signer,
		cfg:             cfg,
		logger:          logger.With(zap.String("module", "evm_connector")),
		finalizedBlocks: cache,
	}, nil
}

type fees struct {
	tipCap     *uint256.Int
	feeCap     *uint256.Int
	blobFeeCap *uint256.Int
}

func (c *Connector) Submit(ctx context.Context, fragments []types.BundleFragment) ([]types.Submission, error) {
	if len(fragments) == 0 {
		return nil, types.ErrEmptyBatch
	}

	var nonce uint64
	if err := retry.Do(func() error {
		var err error
		nonce, err = c.client.PendingNonceAt(ctx, c.signer.From())

		return err
	}, util.RPCRetryOptions(c.logger, "pending_nonce_at", retry.Context(ctx))...); err != nil {
		return nil, types.ErrNetwork.Wrapf("failed to get pending nonce of %s: %v", c.signer.From(), err)
	}

	kept := make([]types.BundleFragment, 0, len(fragments))
	payloads := make([]blobPayload, 0, len(fragments))
	for _, f := range fragments {
		payload, err := buildBlobPayload(f.Data)
		if err != nil {
			c.logger.Warn("failed to build blob commitment, dropping fragment from the batch",
				zap.Uint32("fragment_id", uint32(f.ID)),
				zap.Int("size", f.Size()),
				zap.Error(err),
			)

			continue
		}
		kept = append(kept, f)
		payloads = append(payloads, payload)
	}
	if len(kept) == 0 {
		return []types.Submission{}, nil
	}

	var head uint64
	if err := retry.Do(func() error {
		var err error
		head, err = c.client.BlockNumber(ctx)

		return err
	}, util.RPCRetryOptions(c.logger, "block_number", retry.Context(ctx))...); err != nil {
		return nil, types.ErrNetwork.Wrapf("failed to get latest block number: %v", err)
	}
	submittedAt, err := toHeight(head)
	if err != nil {
		return nil, err
	}

	chainID, err := c.signer.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get signer chain id: %w", err)
	}
	txFees := c.suggestFees(ctx)

	txs := api.AssignNonces(nonce, kept, payloads)
	submissions := api.DispatchOrdered(ctx, c.logger, txs,
		func(ctx context.Context, tx api.PreparedTx[blobPayload]) (types.Submission, error) {
			signed, err := c.signer.SignTx(ctx, ethtypes.NewTx(&ethtypes.BlobTx{
				ChainID:    uint256.MustFromBig(chainID),
				Nonce:      tx.Nonce,
				GasTipCap:  txFees.tipCap,
				GasFeeCap:  txFees.feeCap,
				Gas:        c.cfg.GasLimit,
				To:         c.cfg.Inbox,
				Value:      uint256.NewInt(0),
				BlobFeeCap: txFees.blobFeeCap,
				BlobHashes: []common.Hash{tx.Payload.versionedHash},
				Sidecar: &ethtypes.BlobTxSidecar{
					Blobs:       []kzg4844.Blob{*tx.Payload.blob},
					Commitments: []kzg4844.Commitment{tx.Payload.commitment},
					Proofs:      []kzg4844.Proof{tx.Payload.proof},
				},
			}))
			if err != nil {
				return types.Submission{}, fmt.Errorf("failed to sign blob transaction: %w", err)
			}

			if err := retry.Do(func() error {
				err := c.client.SendTransaction(ctx, signed)
				if err != nil && isAlreadyKnown(err) {
					return nil
				}

				return err
			}, util.RPCRetryOptions(c.logger, "send_transaction", retry.Context(ctx))...); err != nil {
				return types.Submission{}, fmt.Errorf("blob transaction submission failed: %w", err)
			}

			return types.NewSubmission(tx.Fragment.ID, signed.Hash(), submittedAt, tx.Nonce), nil
		})

	c.logger.Debug("dispatched blob transactions",
		zap.Int("requested", len(fragments)),
		zap.Int("committed", len(kept)),
		zap.Int("accepted", len(submissions)),
		zap.Uint64("nonce_base", nonce),
		zap.Uint32("head", submittedAt),
	)

	return submissions, nil
}

// suggestFees returns EIP-1559 and blob fee caps. Query failures fall back
// to fixed defaults; they never fail the submission.
func (c *Connector) suggestFees(ctx context.Context) fees {
	tipCap, err := c.client.SuggestGasTipCap(ctx)
	if err != nil || tipCap == nil {
		tipCap = big.NewInt(defaultTipCapWei)
	}

	feeCap := new(big.Int).Add(big.NewInt(defaultTipCapWei), tipCap)
	blobFeeCap := big.NewInt(1)
	head, err := c.client.HeaderByNumber(ctx, nil)
	if err == nil && head != nil {
		if head.BaseFee != nil {
			feeCap = new(big.Int).Add(new(big.Int).Mul(head.BaseFee, big.NewInt(2)), tipCap)
		}
		if head.ExcessBlobGas != nil {
			blobFeeCap = new(big.Int).Mul(eip4844.CalcBlobFee(*head.ExcessBlobGas), big.NewInt(2))
		}
	}

	return fees{
		tipCap:     uint256.MustFromBig(tipCap),
		feeCap:     uint256.MustFromBig(feeCap),
		blobFeeCap: uint256.MustFromBig(blobFeeCap),
	}
}

// Status scans the recorded block and the next ProbeDepth blocks for the
// transaction. An included transaction is finalized once the finalized head
// reaches its block. A transaction not seen by the time the head has passed
// the scan range is failed.
func (c *Connector) Status(ctx context.Context, submission *types.Submission) (types.DispersalStatus, error) {
	var (
		head      uint64
		finalized *ethtypes.Header
	)
	if err := retry.Do(func() error {
		var err error
		if head, err = c.client.BlockNumber(ctx); err != nil {
			return err
		}
		finalized, err = c.client.HeaderByNumber(ctx, big.NewInt(ethrpc.FinalizedBlockNumber.Int64()))

		return err
	}, util.RPCRetryOptions(c.logger, "chain_heads", retry.Context(ctx))...); err != nil {
		return types.DispersalStatus{}, types.ErrNetwork.Wrapf("failed to get chain heads: %v", err)
	}
	finalizedHeight := finalized.Number.Uint64()

	from := uint64(submission.BlockNumber)
	to := from + uint64(c.cfg.ProbeDepth)
	for h := from; h <= to && h <= head; h++ {
		block, err := c.blockAt(ctx, h, finalizedHeight)
		if err != nil {
			return types.DispersalStatus{}, err
		}
		if block.Transaction(submission.TxHash) == nil {
			continue
		}

		return c.includedStatus(ctx, submission.TxHash, finalizedHeight)
	}

	if head <= to {
		return types.Processing, nil
	}

	c.logger.Debug("transaction not found in the scan range",
		zap.String("tx_hash", submission.TxHash.Hex()),
		zap.Uint32("submitted_at", submission.BlockNumber),
		zap.Uint64("head", head),
	)

	return types.Failed, nil
}

func (c *Connector) includedStatus(ctx context.Context, txHash common.Hash, finalizedHeight uint64) (types.DispersalStatus, error) {
	var receipt *ethtypes.Receipt
	if err := retry.Do(func() error {
		var err error
		receipt, err = c.client.TransactionReceipt(ctx, txHash)
		if errors.Is(err, ethereum.NotFound) {
			// block seen but receipt not indexed yet, or dropped by a reorg
			receipt = nil

			return nil
		}

		return err
	}, util.RPCRetryOptions(c.logger, "transaction_receipt", retry.Context(ctx))...); err != nil {
		return types.DispersalStatus{}, types.ErrNetwork.Wrapf("failed to get receipt of %s: %v", txHash, err)
	}
	if receipt == nil {
		return types.Processing, nil
	}

	if receipt.Status == ethtypes.ReceiptStatusFailed {
		return types.Failed, nil
	}
	if receipt.BlockNumber != nil && receipt.BlockNumber.Uint64() <= finalizedHeight {
		return types.Finalized, nil
	}

	return types.Confirmed, nil
}

func (c *Connector) blockAt(ctx context.Context, height, finalizedHeight uint64) (*ethtypes.Block, error) {
	if block, ok := c.finalizedBlocks.Get(height); ok {
		return block, nil
	}

	var block *ethtypes.Block
	if err := retry.Do(func() error {
		var err error
		block, err = c.client.BlockByNumber(ctx, new(big.Int).SetUint64(height))

		return err
	}, util.RPCRetryOptions(c.logger, "block_by_number", retry.Context(ctx))...); err != nil {
		return nil, types.ErrNetwork.Wrapf("failed to get block %d: %v", height, err)
	}

	if height <= finalizedHeight {
		c.finalizedBlocks.Add(height, block)
	}

	return block, nil
}

func (c *Connector) Close() error {
	c.client.Close()

	return nil
}

func toHeight(h uint64) (uint32, error) {
	if h > uint64(^uint32(0)) {
		return 0, fmt.Errorf("block height %d overflows uint32", h)
	}

	return uint32(h), nil
}

// isAlreadyKnown reports a resend of a transaction the pool already holds.
func isAlreadyKnown(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already known")
}
