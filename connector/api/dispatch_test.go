package api_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/da-committer/da-committer/connector/api"
	"github.com/da-committer/da-committer/types"
)

func genFragments(n int) []types.BundleFragment {
	fragments := make([]types.BundleFragment, 0, n)
	for i := 0; i < n; i++ {
		fragments = append(fragments, types.BundleFragment{
			ID:                  types.FragmentID(100 + i),
			Data:                []byte{byte(i)},
			OldestBlockInBundle: uint32(i),
		})
	}

	return fragments
}

func TestDispatchOrderedKeepsInputOrder(t *testing.T) {
	fragments := genFragments(10)
	payloads := make([]int, len(fragments))
	txs := api.AssignNonces(42, fragments, payloads)

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	delays := make([]time.Duration, len(txs))
	for i := range delays {
		delays[i] = time.Duration(r.Intn(20)) * time.Millisecond
	}

	subs := api.DispatchOrdered(context.Background(), zap.NewNop(), txs,
		func(_ context.Context, tx api.PreparedTx[int]) (types.Submission, error) {
			time.Sleep(delays[tx.Nonce-42])

			return types.Submission{TxHash: common.BigToHash(common.Big1), Status: types.Processing}, nil
		})

	require.Len(t, subs, len(fragments))
	for i, sub := range subs {
		require.Equal(t, fragments[i].ID, sub.FragmentID)
		require.Equal(t, uint64(42+i), sub.Nonce)
	}
}

func TestDispatchOrderedDropsFailures(t *testing.T) {
	fragments := genFragments(4)
	txs := api.AssignNonces(0, fragments, make([]struct{}, len(fragments)))

	subs := api.DispatchOrdered(context.Background(), zap.NewNop(), txs,
		func(_ context.Context, tx api.PreparedTx[struct{}]) (types.Submission, error) {
			if tx.Nonce == 1 || tx.Nonce == 2 {
				return types.Submission{}, errors.New("pool rejected transaction")
			}

			return types.Submission{Status: types.Processing}, nil
		})

	require.Len(t, subs, 2)
	require.Equal(t, fragments[0].ID, subs[0].FragmentID)
	require.Equal(t, fragments[3].ID, subs[1].FragmentID)
	require.Equal(t, uint64(3), subs[1].Nonce)
}
