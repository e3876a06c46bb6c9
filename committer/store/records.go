package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/da-committer/da-committer/types"
)

// Stored status bytes. The values are part of the on-disk format.
const (
	statusProcessing uint8 = 0
	statusFinalized  uint8 = 1
	statusFailed     uint8 = 2
	statusConfirmed  uint8 = 3
)

func encodeStatus(status types.DispersalStatus) uint8 {
	switch status.Persisted().Kind {
	case types.StatusProcessing:
		return statusProcessing
	case types.StatusConfirmed:
		return statusConfirmed
	case types.StatusFinalized:
		return statusFinalized
	default:
		return statusFailed
	}
}

func decodeStatus(b uint8) (types.DispersalStatus, error) {
	switch b {
	case statusProcessing:
		return types.Processing, nil
	case statusFinalized:
		return types.Finalized, nil
	case statusFailed:
		return types.Failed, nil
	case statusConfirmed:
		return types.Confirmed, nil
	default:
		return types.DispersalStatus{}, fmt.Errorf("%w: %d", ErrInvalidStatus, b)
	}
}

type fragmentRecord struct {
	Data                []byte
	OldestBlockInBundle uint32
}

type submissionRecord struct {
	FragmentID  uint32
	TxHash      common.Hash
	TxIndex     uint32
	BlockHash   common.Hash
	BlockNumber uint32
	Nonce       uint64
	Status      uint8
	// CreatedAt is unix nanoseconds
	CreatedAt uint64
}

func newSubmissionRecord(sub *types.Submission, fragmentID types.FragmentID, createdAt time.Time) *submissionRecord {
	return &submissionRecord{
		FragmentID:  uint32(fragmentID),
		TxHash:      sub.TxHash,
		TxIndex:     sub.TxIndex,
		BlockHash:   sub.BlockHash,
		BlockNumber: sub.BlockNumber,
		Nonce:       sub.Nonce,
		Status:      encodeStatus(sub.Status),
		CreatedAt:   uint64(createdAt.UnixNano()),
	}
}

func (r *submissionRecord) toSubmission(id uint64) (*types.Submission, error) {
	status, err := decodeStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("submission %d: %w", id, err)
	}

	return &types.Submission{
		ID:          &id,
		FragmentID:  types.FragmentID(r.FragmentID),
		TxHash:      r.TxHash,
		TxIndex:     r.TxIndex,
		BlockHash:   r.BlockHash,
		BlockNumber: r.BlockNumber,
		Nonce:       r.Nonce,
		Status:      status,
		CreatedAt:   time.Unix(0, int64(r.CreatedAt)).UTC(),
	}, nil
}

func decodeSubmissionRecord(v []byte) (*submissionRecord, error) {
	var r submissionRecord
	if err := rlp.DecodeBytes(v, &r); err != nil {
		return nil, ErrCorruptedSubmissionDB
	}

	return &r, nil
}

func decodeFragment(k, v []byte) (types.BundleFragment, error) {
	if len(k) != 4 {
		return types.BundleFragment{}, ErrCorruptedSubmissionDB
	}

	var r fragmentRecord
	if err := rlp.DecodeBytes(v, &r); err != nil {
		return types.BundleFragment{}, ErrCorruptedSubmissionDB
	}

	return types.BundleFragment{
		ID:                  types.FragmentID(binary.BigEndian.Uint32(k)),
		Data:                r.Data,
		OldestBlockInBundle: r.OldestBlockInBundle,
	}, nil
}

func fragmentKey(id types.FragmentID) []byte {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], uint32(id))

	return k[:]
}

func submissionKey(id uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], id)

	return k[:]
}
