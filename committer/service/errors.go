package service

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const appTerminatingMsg = "terminating the committer due to critical error"

var tracer = otel.Tracer("committer/service")

// CriticalError is reported by a loop that cannot make progress anymore.
type CriticalError struct {
	err       error
	component string
}

func (ce *CriticalError) Error() string {
	return fmt.Sprintf("critical err in %s: %s", ce.component, ce.err.Error())
}

func (ce *CriticalError) Unwrap() error {
	return ce.err
}

func setStatusAndEnd(span trace.Span, err error) {
	defer span.End()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return
	}
	span.SetStatus(codes.Ok, "")
}
