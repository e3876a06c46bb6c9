package evm_test

import (
	"context"
	"math/big"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/consensus/misc/eip4844"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/connector/evm"
	"github.com/da-committer/da-committer/testutil"
	"github.com/da-committer/da-committer/types"
)

type fakeEthClient struct {
	mu sync.Mutex

	chainID   *big.Int
	nonce     uint64
	head      uint64
	finalized uint64
	// excessBlobGas of the head header, nil before Cancun
	excessBlobGas *uint64
	blocks        map[uint64][]*ethtypes.Transaction
	receipts      map[common.Hash]*ethtypes.Receipt
	sent          []*ethtypes.Transaction

	blockQueries int
}

func newFakeEthClient(nonce, head uint64) *fakeEthClient {
	return &fakeEthClient{
		chainID:  big.NewInt(17000),
		nonce:    nonce,
		head:     head,
		blocks:   map[uint64][]*ethtypes.Transaction{},
		receipts: map[common.Hash]*ethtypes.Receipt{},
	}
}

func (f *fakeEthClient) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeEthClient) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeEthClient) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.head, nil
}

func (f *fakeEthClient) BlockByNumber(_ context.Context, number *big.Int) (*ethtypes.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockQueries++

	header := &ethtypes.Header{Number: new(big.Int).Set(number)}

	return ethtypes.NewBlockWithHeader(header).WithBody(ethtypes.Body{Transactions: f.blocks[number.Uint64()]}), nil
}

func (f *fakeEthClient) HeaderByNumber(_ context.Context, number *big.Int) (*ethtypes.Header, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if number == nil {
		return &ethtypes.Header{
			Number:        new(big.Int).SetUint64(f.head),
			BaseFee:       big.NewInt(1_000_000_000),
			ExcessBlobGas: f.excessBlobGas,
		}, nil
	}
	if number.Sign() < 0 {
		return &ethtypes.Header{Number: new(big.Int).SetUint64(f.finalized)}, nil
	}

	return &ethtypes.Header{Number: new(big.Int).Set(number)}, nil
}

func (f *fakeEthClient) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_500_000_000), nil
}

func (f *fakeEthClient) SendTransaction(_ context.Context, tx *ethtypes.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)

	return nil
}

func (f *fakeEthClient) TransactionReceipt(_ context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}

	return r, nil
}

func (f *fakeEthClient) Close() {}

// include puts tx into the block at height with the given receipt status.
func (f *fakeEthClient) include(tx *ethtypes.Transaction, height uint64, status uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks[height] = append(f.blocks[height], tx)
	f.receipts[tx.Hash()] = &ethtypes.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(height),
	}
}

func newTestConnector(t *testing.T, client *fakeEthClient) (*evm.Connector, *evm.LocalECDSASigner) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := evm.NewLocalECDSASigner(client.chainID, key)

	cfg := evm.DefaultConfig()
	cfg.Inbox = common.HexToAddress("0xff00000000000000000000000000000000000042")
	conn, err := evm.NewConnector(client, signer, cfg, zap.NewNop())
	require.NoError(t, err)

	return conn, signer
}

func TestSubmitBlobTransactions(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	client := newFakeEthClient(40, 900)
	conn, signer := newTestConnector(t, client)

	fragments := testutil.GenRandomFragments(r, 4, 10, 5000)
	// too large for a single blob
	fragments[1].Data = testutil.GenRandomByteArray(r, evm.MaxBlobDataSize+1)

	subs, err := conn.Submit(context.Background(), fragments)
	require.NoError(t, err)
	require.Len(t, subs, 3)

	wantIDs := []types.FragmentID{10, 12, 13}
	sent := map[common.Hash]*ethtypes.Transaction{}
	for _, tx := range client.sent {
		sent[tx.Hash()] = tx
	}
	for i, sub := range subs {
		require.Equal(t, wantIDs[i], sub.FragmentID)
		require.Equal(t, uint64(40+i), sub.Nonce)
		require.Equal(t, uint32(900), sub.BlockNumber)
		require.Equal(t, types.Processing, sub.Status)

		tx, ok := sent[sub.TxHash]
		require.True(t, ok)
		require.Equal(t, uint8(ethtypes.BlobTxType), tx.Type())
		require.Equal(t, sub.Nonce, tx.Nonce())
		require.Len(t, tx.BlobHashes(), 1)

		from, err := ethtypes.Sender(ethtypes.LatestSignerForChainID(client.chainID), tx)
		require.NoError(t, err)
		require.Equal(t, signer.From(), from)

		sidecar := tx.BlobTxSidecar()
		require.NotNil(t, sidecar)
		data, err := evm.DecodeBlob(&sidecar.Blobs[0])
		require.NoError(t, err)
		require.Equal(t, fragments[wantIDs[i]-10].Data, data)
	}
}

func TestSubmitEmptyBatch(t *testing.T) {
	conn, _ := newTestConnector(t, newFakeEthClient(0, 1))

	_, err := conn.Submit(context.Background(), nil)
	require.ErrorIs(t, err, types.ErrEmptyBatch)
}

func TestStatusBlockScan(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	client := newFakeEthClient(0, 1000)
	conn, _ := newTestConnector(t, client)

	subs, err := conn.Submit(context.Background(), testutil.GenRandomFragments(r, 3, 1, 10))
	require.NoError(t, err)
	require.Len(t, subs, 3)
	txs := client.sent

	txByHash := func(h common.Hash) *ethtypes.Transaction {
		for _, tx := range txs {
			if tx.Hash() == h {
				return tx
			}
		}
		t.Fatalf("tx %s not sent", h)

		return nil
	}

	// not yet mined, head within the scan range
	client.head = 1002
	status, err := conn.Status(context.Background(), &subs[0])
	require.NoError(t, err)
	require.Equal(t, types.Processing, status)

	client.include(txByHash(subs[0].TxHash), 1001, ethtypes.ReceiptStatusSuccessful)
	client.include(txByHash(subs[1].TxHash), 1002, ethtypes.ReceiptStatusFailed)
	client.head = 1010
	client.finalized = 990

	status, err = conn.Status(context.Background(), &subs[0])
	require.NoError(t, err)
	require.Equal(t, types.Confirmed, status)

	status, err = conn.Status(context.Background(), &subs[1])
	require.NoError(t, err)
	require.Equal(t, types.Failed, status)

	// never mined and the head moved past the scan range
	status, err = conn.Status(context.Background(), &subs[2])
	require.NoError(t, err)
	require.Equal(t, types.Failed, status)

	client.finalized = 1001
	status, err = conn.Status(context.Background(), &subs[0])
	require.NoError(t, err)
	require.Equal(t, types.Finalized, status)
}

func TestStatusCachesFinalizedBlocks(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	client := newFakeEthClient(0, 100)
	conn, _ := newTestConnector(t, client)

	subs, err := conn.Submit(context.Background(), testutil.GenRandomFragments(r, 1, 1, 10))
	require.NoError(t, err)
	require.Len(t, subs, 1)

	client.head = 200
	client.finalized = 150

	_, err = conn.Status(context.Background(), &subs[0])
	require.NoError(t, err)
	queries := client.blockQueries
	require.Equal(t, int(evm.DefaultProbeDepth)+1, queries)

	_, err = conn.Status(context.Background(), &subs[0])
	require.NoError(t, err)
	require.Equal(t, queries, client.blockQueries)
}

func TestSubmitBlobFeeCaps(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	t.Run("pre cancun head", func(t *testing.T) {
		client := newFakeEthClient(0, 10)
		conn, _ := newTestConnector(t, client)

		_, err := conn.Submit(context.Background(), testutil.GenRandomFragments(r, 1, 1, 10))
		require.NoError(t, err)
		require.Len(t, client.sent, 1)
		require.Zero(t, big.NewInt(1).Cmp(client.sent[0].BlobGasFeeCap()))
		// 2 * base fee + tip
		require.Zero(t, big.NewInt(3_500_000_000).Cmp(client.sent[0].GasFeeCap()))
	})

	t.Run("excess blob gas", func(t *testing.T) {
		client := newFakeEthClient(0, 10)
		excess := uint64(10_000_000)
		client.excessBlobGas = &excess
		conn, _ := newTestConnector(t, client)

		_, err := conn.Submit(context.Background(), testutil.GenRandomFragments(r, 1, 1, 10))
		require.NoError(t, err)
		require.Len(t, client.sent, 1)

		want := new(big.Int).Mul(eip4844.CalcBlobFee(excess), big.NewInt(2))
		require.Zero(t, want.Cmp(client.sent[0].BlobGasFeeCap()))
	})
}

func TestStatusReceiptGoneAfterReorg(t *testing.T) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	client := newFakeEthClient(0, 500)
	conn, _ := newTestConnector(t, client)

	subs, err := conn.Submit(context.Background(), testutil.GenRandomFragments(r, 1, 1, 10))
	require.NoError(t, err)
	require.Len(t, subs, 1)

	// the block still carries the tx but the node dropped its receipt
	client.mu.Lock()
	client.blocks[501] = append(client.blocks[501], client.sent[0])
	client.head = 505
	client.mu.Unlock()

	status, err := conn.Status(context.Background(), &subs[0])
	require.NoError(t, err)
	require.Equal(t, types.Processing, status)
}
