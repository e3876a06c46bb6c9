package api

import (
	"context"

	"github.com/da-committer/da-committer/types"
)

// DAConnector is the capability set the committer needs from a DA network.
// One implementation exists per network and is chosen at process start.
type DAConnector interface {
	// Submit posts the fragments as transactions under one contiguous nonce
	// range, in input order. Fragments whose commitment cannot be built or
	// whose transaction is rejected are left out of the result; every
	// returned submission names the fragment it carries. An error is returned
	// only when the call as a whole could not proceed.
	Submit(ctx context.Context, fragments []types.BundleFragment) ([]types.Submission, error)

	// Status queries the current dispersal status of a prior submission.
	Status(ctx context.Context, submission *types.Submission) (types.DispersalStatus, error)

	// Close releases the underlying client.
	Close() error
}
