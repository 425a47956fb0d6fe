package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCollect is returned when no search location could be collected.
	ErrCollect = errors.New("collect listings")
	// ErrFetch is returned when a detail page fetch fails at the transport level.
	ErrFetch = errors.New("fetch detail page")
	// ErrDelivery is returned when a chunk could not be delivered.
	ErrDelivery = errors.New("deliver jobs")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
