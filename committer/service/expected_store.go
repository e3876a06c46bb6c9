package service

import (
	"time"

	"github.com/da-committer/da-committer/types"
)

// FragmentStore is the part of the submission store used by the fragment
// submitter.
type FragmentStore interface {
	// OldestUnsubmittedFragments returns up to limit fragments, oldest id
	// first, whose OldestBlockInBundle is at least minHeight.
	OldestUnsubmittedFragments(minHeight uint32, limit int) ([]types.BundleFragment, error)
	// RecordSubmissions persists a whole batch as one unit, each submission
	// becoming the active one of its FragmentID.
	RecordSubmissions(subs []types.Submission, createdAt time.Time) ([]uint64, error)
}

// SubmissionStatusStore is the part of the submission store used by the
// finality tracker.
type SubmissionStatusStore interface {
	NonTerminalSubmissions() ([]*types.Submission, error)
	// ApplyStatusUpdates persists all updates as one unit.
	ApplyStatusUpdates(updates []types.StatusUpdate) error
}
