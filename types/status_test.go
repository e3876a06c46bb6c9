package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/da-committer/da-committer/types"
)

func TestDispersalStatusTerminal(t *testing.T) {
	require.False(t, types.Processing.IsTerminal())
	require.False(t, types.Confirmed.IsTerminal())
	require.True(t, types.Finalized.IsTerminal())
	require.True(t, types.Failed.IsTerminal())
	require.False(t, types.Other("dropped").IsTerminal())
}

func TestDispersalStatusPersisted(t *testing.T) {
	require.Equal(t, types.Failed, types.Other("invalid").Persisted())
	require.Equal(t, types.Confirmed, types.Confirmed.Persisted())
	require.Equal(t, "other(invalid)", types.Other("invalid").String())
}

func TestLookbackFloor(t *testing.T) {
	require.Equal(t, uint32(4000), types.LookbackFloor(5000, 1000))
	require.Equal(t, uint32(0), types.LookbackFloor(500, 1000))
	require.Equal(t, uint32(0), types.LookbackFloor(1000, 1000))
}

func TestOldestBlock(t *testing.T) {
	fragments := []types.BundleFragment{
		{ID: 1, OldestBlockInBundle: 40},
		{ID: 2, OldestBlockInBundle: 12},
		{ID: 3, OldestBlockInBundle: 90},
	}
	require.Equal(t, uint32(12), types.OldestBlock(fragments))
	require.Equal(t, []types.FragmentID{1, 2, 3}, types.FragmentIDs(fragments))
}

func TestErrorTaxonomy(t *testing.T) {
	err := types.ErrNetwork.Wrap("nonce query failed")
	require.True(t, types.IsNetwork(err))
	require.False(t, types.IsStorage(err))
}
