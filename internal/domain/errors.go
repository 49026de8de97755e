package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidation marks a construction-time invariant violation. It is
	// fatal to the construction attempt and never silently coerced.
	ErrValidation = errors.New("validation failed")

	// ErrStorage marks an I/O failure in the event log storage layer. It is
	// surfaced for retry decisions; the core never retries internally.
	ErrStorage = errors.New("storage failure")

	// ErrNotFound is returned by lookups for unknown identifiers.
	ErrNotFound = errors.New("not found")
)

// requireID validates that an identifier field is non-empty.
func requireID(entity, field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s.%s must be a non-empty string", ErrValidation, entity, field)
	}
	return nil
}

// requireTime validates that a timestamp field carries a real instant. The
// zero time is the Go analogue of a naive timestamp: it means the producer
// never stamped the value.
func requireTime(entity, field string, t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%w: %s.%s must be set", ErrValidation, entity, field)
	}
	return nil
}
