package ingest

import (
	"errors"
	"fmt"
)

// ErrNotFound matches any *NotFoundError via errors.Is.
var ErrNotFound = errors.New("location not found")

// NotFoundError is returned when forward geocoding yields no results.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return "No location found for that name"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NetworkError is returned when an upstream call fails at the transport level
// or answers with a non-success status. Error() is safe to show to users; the
// status and cause are kept for logs.
type NetworkError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Detail describes the failure for logging.
func (e *NetworkError) Detail() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}
