// Package clients is the outbound HTTP layer: retry, circuit breaking,
// rate limiting, tracing and metrics around a downstream service.
package clients

import (
	"errors"
	"time"
)

// Infrastructure failures. The acl package translates them to domain errors.
var (
	// ErrCircuitOpen is matched by every *OpenError.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last transport error once every attempt failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// OpenError is returned without a network call while the circuit is open or
// all half-open probe slots are taken.
type OpenError struct {
	// RetryAt is when the next probe is admitted; zero when probes are busy.
	RetryAt time.Time
}

func (e *OpenError) Error() string {
	if e.RetryAt.IsZero() {
		return ErrCircuitOpen.Error() + ": probe in flight"
	}

	return ErrCircuitOpen.Error() + " until " + e.RetryAt.UTC().Format(time.RFC3339)
}

func (e *OpenError) Unwrap() error {
	return ErrCircuitOpen
}
