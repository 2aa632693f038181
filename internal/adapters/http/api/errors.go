package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("no volunteer records found")
	ErrNotReady   = errors.New("volunteer data not loaded yet")
)

// kindError tags a cause with an operation and a sentinel kind so callers can
// match with errors.Is(err, kind).
type kindError struct {
	op    string
	kind  error
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.cause)
}

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// WrapKind returns "op: kind: cause".
func WrapKind(op string, kind, cause error) error {
	return &kindError{op: op, kind: kind, cause: cause}
}

// NewKind returns "op: kind".
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}
