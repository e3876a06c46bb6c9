package types

import "fmt"

// FragmentID identifies a bundle fragment. Ids are assigned by the bundler in
// increasing order, so comparing two ids compares their age.
type FragmentID uint32

func (id FragmentID) String() string {
	return fmt.Sprintf("%d", uint32(id))
}

// BundleFragment is a contiguous slice of compressed rollup state waiting to
// be posted to the DA layer. Fragments are immutable once created.
type BundleFragment struct {
	ID   FragmentID
	Data []byte
	// OldestBlockInBundle is the lowest rollup height whose data is carried
	// by the bundle this fragment belongs to.
	OldestBlockInBundle uint32
}

func (f BundleFragment) Size() int {
	return len(f.Data)
}

// FragmentIDs returns the ids of the given fragments in order.
func FragmentIDs(fragments []BundleFragment) []FragmentID {
	ids := make([]FragmentID, 0, len(fragments))
	for _, f := range fragments {
		ids = append(ids, f.ID)
	}

	return ids
}

// OldestBlock returns the minimum OldestBlockInBundle over a non-empty slice.
func OldestBlock(fragments []BundleFragment) uint32 {
	oldest := fragments[0].OldestBlockInBundle
	for _, f := range fragments[1:] {
		if f.OldestBlockInBundle < oldest {
			oldest = f.OldestBlockInBundle
		}
	}

	return oldest
}

// LookbackFloor is the lowest rollup height still considered for submission.
func LookbackFloor(latestHeight, lookbackWindow uint32) uint32 {
	if latestHeight < lookbackWindow {
		return 0
	}

	return latestHeight - lookbackWindow
}
