package sheet

import (
	"errors"
	"fmt"
)

// Sentinel kinds for source failures.
var (
	ErrFetch = errors.New("fetch sheet failed")
	ErrWatch = errors.New("watch sheet failed")
)

// StatusError is a non-2xx response from the export URL.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	switch e.Code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
