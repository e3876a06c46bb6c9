package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

const codespace = "dacommitter"

var (
	// ErrNetwork wraps failures talking to the DA layer or the rollup node.
	ErrNetwork = errorsmod.Register(codespace, 2, "network error")
	// ErrStorage wraps failures of the submission store.
	ErrStorage = errorsmod.Register(codespace, 3, "storage error")
	// ErrEmptyBatch is returned when a connector is asked to submit nothing.
	ErrEmptyBatch = errorsmod.Register(codespace, 4, "empty fragment batch")
	// ErrNothingSubmitted is returned when a non-empty batch produced no transaction.
	ErrNothingSubmitted = errorsmod.Register(codespace, 5, "no fragment of the batch was submitted")
	// ErrCommitment is returned when a DA commitment cannot be built for a payload.
	ErrCommitment = errorsmod.Register(codespace, 6, "failed to build DA commitment")
)

func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
