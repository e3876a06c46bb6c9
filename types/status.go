package types

import "fmt"

type StatusKind uint8

const (
	StatusProcessing StatusKind = iota
	StatusConfirmed
	StatusFinalized
	StatusFailed
	// StatusOther is reported for network states this service does not know.
	StatusOther
)

func (k StatusKind) String() string {
	switch k {
	case StatusProcessing:
		return "processing"
	case StatusConfirmed:
		return "confirmed"
	case StatusFinalized:
		return "finalized"
	case StatusFailed:
		return "failed"
	case StatusOther:
		return "other"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// DispersalStatus is the state of a submission on the DA layer. Reason is only
// set for StatusOther.
type DispersalStatus struct {
	Kind   StatusKind
	Reason string
}

var (
	Processing = DispersalStatus{Kind: StatusProcessing}
	Confirmed  = DispersalStatus{Kind: StatusConfirmed}
	Finalized  = DispersalStatus{Kind: StatusFinalized}
	Failed     = DispersalStatus{Kind: StatusFailed}
)

func Other(reason string) DispersalStatus {
	return DispersalStatus{Kind: StatusOther, Reason: reason}
}

func (s DispersalStatus) String() string {
	if s.Kind == StatusOther {
		return fmt.Sprintf("other(%s)", s.Reason)
	}

	return s.Kind.String()
}

// IsTerminal reports whether the submission no longer needs to be tracked.
func (s DispersalStatus) IsTerminal() bool {
	return s.Kind == StatusFinalized || s.Kind == StatusFailed
}

// Persisted returns the status as it is written to storage. Unknown network
// states cannot be trusted and are stored as failed.
func (s DispersalStatus) Persisted() DispersalStatus {
	if s.Kind == StatusOther {
		return Failed
	}

	return s
}

// Rank orders the non-failed states by progress. Failed and Other have no
// rank and return -1.
func (s DispersalStatus) Rank() int {
	switch s.Kind {
	case StatusProcessing:
		return 0
	case StatusConfirmed:
		return 1
	case StatusFinalized:
		return 2
	default:
		return -1
	}
}
