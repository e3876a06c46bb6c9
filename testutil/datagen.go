package testutil

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/da-committer/da-committer/types"
)

func GenRandomByteArray(r *rand.Rand, length uint64) []byte {
	newHeaderBytes := make([]byte, length)
	r.Read(newHeaderBytes)

	return newHeaderBytes
}

func GenRandomHash(r *rand.Rand) common.Hash {
	return common.BytesToHash(GenRandomByteArray(r, common.HashLength))
}

func AddRandomSeedsToFuzzer(f *testing.F, num uint) {
	// Seed based on the current time
	r := rand.New(rand.NewSource(time.Now().Unix()))
	var idx uint
	for idx = 0; idx < num; idx++ {
		f.Add(r.Int63())
	}
}

// GenRandomFragments returns n fragments with consecutive ids starting at
// startID. Oldest block heights are non-decreasing from startHeight.
func GenRandomFragments(r *rand.Rand, n int, startID uint32, startHeight uint32) []types.BundleFragment {
	fragments := make([]types.BundleFragment, 0, n)
	height := startHeight
	for i := 0; i < n; i++ {
		fragments = append(fragments, types.BundleFragment{
			ID:                  types.FragmentID(startID + uint32(i)),
			Data:                GenRandomByteArray(r, uint64(r.Intn(512)+1)),
			OldestBlockInBundle: height,
		})
		height += uint32(r.Intn(3))
	}

	return fragments
}

// GenRandomSubmission returns an unpersisted submission for the fragment.
func GenRandomSubmission(r *rand.Rand, fragmentID types.FragmentID) types.Submission {
	return types.NewSubmission(fragmentID, GenRandomHash(r), uint32(r.Intn(1_000_000)+1), r.Uint64()>>1)
}
