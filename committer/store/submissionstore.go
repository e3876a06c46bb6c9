package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/btcsuite/btcwallet/walletdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/lightningnetwork/lnd/kvdb"

	"github.com/da-committer/da-committer/types"
)

var (
	// mapping fragment id -> fragmentRecord
	fragmentsBucketName = []byte("fragments")
	// mapping submission id -> submissionRecord
	submissionsBucketName = []byte("submissions")
	// mapping fragment id -> id of its latest submission
	fragmentSubmissionsBucketName = []byte("fragment_submissions")
	// set of submission ids not yet finalized or failed
	pendingSubmissionsBucketName = []byte("pending_submissions")

	pendingMarker = []byte{1}
)

// SubmissionStore persists fragments and the DA submissions carrying them.
type SubmissionStore struct {
	db kvdb.Backend
}

// NewSubmissionStore returns a new store backed by db
func NewSubmissionStore(db kvdb.Backend) (*SubmissionStore, error) {
	store := &SubmissionStore{db}
	if err := store.initBuckets(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SubmissionStore) initBuckets() error {
	if err := kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		for _, name := range [][]byte{
			fragmentsBucketName,
			submissionsBucketName,
			fragmentSubmissionsBucketName,
			pendingSubmissionsBucketName,
		} {
			if _, err := tx.CreateTopLevelBucket(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		return nil
	}); err != nil {
		return fmt.Errorf("failed to initialize submission buckets: %w", err)
	}

	return nil
}

// AddFragments stores new fragments. The whole call fails if any id is
// already known.
func (s *SubmissionStore) AddFragments(fragments []types.BundleFragment) error {
	if err := kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		bucket := tx.ReadWriteBucket(fragmentsBucketName)
		if bucket == nil {
			return ErrCorruptedSubmissionDB
		}

		for _, f := range fragments {
			key := fragmentKey(f.ID)
			if bucket.Get(key) != nil {
				return fmt.Errorf("%w: %d", ErrDuplicateFragment, f.ID)
			}

			v, err := rlp.EncodeToBytes(&fragmentRecord{
				Data:                f.Data,
				OldestBlockInBundle: f.OldestBlockInBundle,
			})
			if err != nil {
				return fmt.Errorf("failed to encode fragment %d: %w", f.ID, err)
			}
			if err := bucket.Put(key, v); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return fmt.Errorf("failed to add fragments: %w", err)
	}

	return nil
}

// OldestUnsubmittedFragments returns up to limit fragments in ascending id
// order whose OldestBlockInBundle is at least minHeight and which either were
// never submitted or whose latest submission failed.
func (s *SubmissionStore) OldestUnsubmittedFragments(minHeight uint32, limit int) ([]types.BundleFragment, error) {
	var fragments []types.BundleFragment

	if err := s.db.View(func(tx kvdb.RTx) error {
		fragmentsBucket := tx.ReadBucket(fragmentsBucketName)
		linkBucket := tx.ReadBucket(fragmentSubmissionsBucketName)
		subsBucket := tx.ReadBucket(submissionsBucketName)
		if fragmentsBucket == nil || linkBucket == nil || subsBucket == nil {
			return ErrCorruptedSubmissionDB
		}

		cursor := fragmentsBucket.ReadCursor()
		for k, v := cursor.First(); k != nil && len(fragments) < limit; k, v = cursor.Next() {
			f, err := decodeFragment(k, v)
			if err != nil {
				return err
			}
			if f.OldestBlockInBundle < minHeight {
				continue
			}

			submitted, err := hasActiveSubmission(linkBucket, subsBucket, k)
			if err != nil {
				return err
			}
			if !submitted {
				fragments = append(fragments, f)
			}
		}

		return nil
	}, func() {
		fragments = nil
	}); err != nil {
		return nil, fmt.Errorf("failed to get unsubmitted fragments: %w", err)
	}

	return fragments, nil
}

func hasActiveSubmission(linkBucket, subsBucket walletdb.ReadBucket, fragmentKey []byte) (bool, error) {
	subKey := linkBucket.Get(fragmentKey)
	if subKey == nil {
		return false, nil
	}

	v := subsBucket.Get(subKey)
	if v == nil {
		return false, ErrCorruptedSubmissionDB
	}
	r, err := decodeSubmissionRecord(v)
	if err != nil {
		return false, err
	}
	status, err := decodeStatus(r.Status)
	if err != nil {
		return false, err
	}

	return status.Kind != types.StatusFailed, nil
}

// RecordSubmissions persists the submissions of one DA batch in a single
// transaction, each as the active submission of its FragmentID. A previous
// failed submission of a fragment is superseded. Either all of them are
// stored or none is. The returned ids follow the input order.
func (s *SubmissionStore) RecordSubmissions(subs []types.Submission, createdAt time.Time) ([]uint64, error) {
	var ids []uint64

	if err := kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		ids = make([]uint64, 0, len(subs))
		for i := range subs {
			id, err := putSubmission(tx, &subs[i], createdAt)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to record %d submissions: %w", len(subs), err)
	}

	return ids, nil
}

func putSubmission(tx kvdb.RwTx, sub *types.Submission, createdAt time.Time) (uint64, error) {
	fragmentsBucket := tx.ReadWriteBucket(fragmentsBucketName)
	subsBucket := tx.ReadWriteBucket(submissionsBucketName)
	linkBucket := tx.ReadWriteBucket(fragmentSubmissionsBucketName)
	pendingBucket := tx.ReadWriteBucket(pendingSubmissionsBucketName)
	if fragmentsBucket == nil || subsBucket == nil || linkBucket == nil || pendingBucket == nil {
		return 0, ErrCorruptedSubmissionDB
	}

	fKey := fragmentKey(sub.FragmentID)
	if fragmentsBucket.Get(fKey) == nil {
		return 0, fmt.Errorf("%w: %d", ErrFragmentNotFound, sub.FragmentID)
	}

	seq, err := subsBucket.NextSequence()
	if err != nil {
		return 0, err
	}

	record := newSubmissionRecord(sub, sub.FragmentID, createdAt)
	v, err := rlp.EncodeToBytes(record)
	if err != nil {
		return 0, fmt.Errorf("failed to encode submission: %w", err)
	}

	sKey := submissionKey(seq)
	if err := subsBucket.Put(sKey, v); err != nil {
		return 0, err
	}
	if err := linkBucket.Put(fKey, sKey); err != nil {
		return 0, err
	}
	if !sub.Status.Persisted().IsTerminal() {
		if err := pendingBucket.Put(sKey, pendingMarker); err != nil {
			return 0, err
		}
	}

	return seq, nil
}

// NonTerminalSubmissions returns every submission that is neither finalized
// nor failed, in ascending id order.
func (s *SubmissionStore) NonTerminalSubmissions() ([]*types.Submission, error) {
	var submissions []*types.Submission

	if err := s.db.View(func(tx kvdb.RTx) error {
		pendingBucket := tx.ReadBucket(pendingSubmissionsBucketName)
		subsBucket := tx.ReadBucket(submissionsBucketName)
		if pendingBucket == nil || subsBucket == nil {
			return ErrCorruptedSubmissionDB
		}

		return pendingBucket.ForEach(func(k, _ []byte) error {
			sub, err := getSubmission(subsBucket, k)
			if err != nil {
				return err
			}
			submissions = append(submissions, sub)

			return nil
		})
	}, func() {
		submissions = nil
	}); err != nil {
		return nil, fmt.Errorf("failed to get non-terminal submissions: %w", err)
	}

	return submissions, nil
}

// ApplyStatusUpdates writes all updates in one transaction. An unknown
// submission id aborts the whole batch.
func (s *SubmissionStore) ApplyStatusUpdates(updates []types.StatusUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	if err := kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		subsBucket := tx.ReadWriteBucket(submissionsBucketName)
		pendingBucket := tx.ReadWriteBucket(pendingSubmissionsBucketName)
		if subsBucket == nil || pendingBucket == nil {
			return ErrCorruptedSubmissionDB
		}

		for _, u := range updates {
			key := submissionKey(u.SubmissionID)
			v := subsBucket.Get(key)
			if v == nil {
				return fmt.Errorf("%w: %d", ErrSubmissionNotFound, u.SubmissionID)
			}

			record, err := decodeSubmissionRecord(v)
			if err != nil {
				return err
			}
			status := u.Status.Persisted()
			record.Status = encodeStatus(status)

			encoded, err := rlp.EncodeToBytes(record)
			if err != nil {
				return fmt.Errorf("failed to encode submission: %w", err)
			}
			if err := subsBucket.Put(key, encoded); err != nil {
				return err
			}

			if status.IsTerminal() {
				err = pendingBucket.Delete(key)
			} else {
				err = pendingBucket.Put(key, pendingMarker)
			}
			if err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return fmt.Errorf("failed to apply status updates: %w", err)
	}

	return nil
}

func (s *SubmissionStore) GetSubmission(id uint64) (*types.Submission, error) {
	var sub *types.Submission

	if err := s.db.View(func(tx kvdb.RTx) error {
		subsBucket := tx.ReadBucket(submissionsBucketName)
		if subsBucket == nil {
			return ErrCorruptedSubmissionDB
		}

		var err error
		sub, err = getSubmission(subsBucket, submissionKey(id))

		return err
	}, func() {}); err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// SubmissionForFragment returns the latest submission of the fragment.
func (s *SubmissionStore) SubmissionForFragment(fragmentID types.FragmentID) (*types.Submission, error) {
	var sub *types.Submission

	if err := s.db.View(func(tx kvdb.RTx) error {
		subsBucket := tx.ReadBucket(submissionsBucketName)
		linkBucket := tx.ReadBucket(fragmentSubmissionsBucketName)
		if subsBucket == nil || linkBucket == nil {
			return ErrCorruptedSubmissionDB
		}

		subKey := linkBucket.Get(fragmentKey(fragmentID))
		if subKey == nil {
			return ErrSubmissionNotFound
		}

		var err error
		sub, err = getSubmission(subsBucket, subKey)

		return err
	}, func() {}); err != nil {
		return nil, fmt.Errorf("failed to get submission of fragment %d: %w", fragmentID, err)
	}

	return sub, nil
}

func getSubmission(subsBucket walletdb.ReadBucket, key []byte) (*types.Submission, error) {
	if len(key) != 8 {
		return nil, ErrCorruptedSubmissionDB
	}

	v := subsBucket.Get(key)
	if v == nil {
		return nil, ErrSubmissionNotFound
	}

	record, err := decodeSubmissionRecord(v)
	if err != nil {
		return nil, err
	}

	return record.toSubmission(binary.BigEndian.Uint64(key))
}
