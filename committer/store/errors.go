package store

import "errors"

var (
	// ErrCorruptedSubmissionDB For some reason, db on disk representation have changed
	ErrCorruptedSubmissionDB = errors.New("submission db is corrupted")

	// ErrSubmissionNotFound The submission we try to fetch or update is not in db
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrFragmentNotFound The fragment we try to record a submission for is not in db
	ErrFragmentNotFound = errors.New("fragment not found")

	// ErrDuplicateFragment The fragment we try to add already exists in db
	ErrDuplicateFragment = errors.New("fragment already exists")

	// ErrInvalidStatus A stored status byte does not decode to a known status
	ErrInvalidStatus = errors.New("invalid stored submission status")
)
