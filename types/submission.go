package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Submission is one DA transaction carrying one fragment.
type Submission struct {
	// ID is assigned by the store, nil until the submission is persisted.
	ID         *uint64
	FragmentID FragmentID
	TxHash     common.Hash
	// TxIndex is the position of the transaction inside its block, when known.
	TxIndex     uint32
	BlockHash   common.Hash
	BlockNumber uint32
	Nonce       uint64
	Status      DispersalStatus
	CreatedAt   time.Time
}

// NewSubmission returns an unpersisted submission in the processing state.
func NewSubmission(fragmentID FragmentID, txHash common.Hash, blockNumber uint32, nonce uint64) Submission {
	return Submission{
		FragmentID:  fragmentID,
		TxHash:      txHash,
		BlockNumber: blockNumber,
		Nonce:       nonce,
		Status:      Processing,
	}
}

func (s *Submission) IsPersisted() bool {
	return s.ID != nil
}

// StatusUpdate is a status transition staged for one persisted submission.
type StatusUpdate struct {
	SubmissionID uint64
	Status       DispersalStatus
}
