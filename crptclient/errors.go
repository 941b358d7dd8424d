/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"fmt"
	"net/http"
	"time"
)

// InvalidConfigurationError is returned by constructors when the passed
// configuration cannot produce a working client. It is never returned
// by Submit.
type InvalidConfigurationError struct {
	Inner error
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Inner)
}

// Unwrap returns the underlying validation error.
func (e *InvalidConfigurationError) Unwrap() error {
	return e.Inner
}

// QuotaExceededError is returned when no rate limit slot became available
// within the caller's wait tolerance. The submission was not sent and no
// quota was spent, so the caller may retry later.
type QuotaExceededError struct {
	WaitTimeout time.Duration
}

func (e *QuotaExceededError) Error() string {
	if e.WaitTimeout <= 0 {
		return "rate limit quota exceeded"
	}
	return fmt.Sprintf("rate limit quota exceeded, no slot within %s", e.WaitTimeout)
}

// TransportError is returned when the request failed before any HTTP
// response was obtained.
type TransportError struct {
	Inner error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("submission transport failed: %s", e.Inner)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Inner
}

// RemoteError is returned when the endpoint answered with a non-2xx status.
type RemoteError struct {
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("submission rejected with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsRetriable reports whether the status suggests the submission may
// succeed if repeated: 429 and 5xx statuses qualify.
func (e *RemoteError) IsRetriable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}
