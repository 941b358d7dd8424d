/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

// Package retry provides backoff policies for callers that want to retry
// failed submissions. The submission pipeline itself never retries: every
// attempt must pass through the rate limiter, so retrying is a caller
// decision layered on top of it.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Func does one unit of work that may be retried.
type Func func(ctx context.Context) error

// Classifier reports whether an error is worth retrying.
// A nil Classifier treats every error as retryable.
type Classifier func(err error) bool

// Policy produces a fresh backoff schedule per call sequence.
type Policy interface {
	BackOff() backoff.BackOff
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func() backoff.BackOff

// BackOff implements Policy.
func (f PolicyFunc) BackOff() backoff.BackOff {
	return f()
}

// Do runs fn, retrying per the policy until it succeeds, the error is
// classified as permanent, the schedule is exhausted, or ctx is done.
// notify, when non-nil, is called before each backoff sleep with the
// error and the upcoming delay.
func Do(ctx context.Context, p Policy, classify Classifier, notify backoff.Notify, fn Func) error {
	b := backoff.WithContext(p.BackOff(), ctx)
	op := func() error {
		err := fn(b.Context())
		if err != nil && classify != nil && !classify(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(op, b, notify)
}

// Constant retries up to MaxAttempts times with a fixed delay.
// MaxAttempts <= 0 means retry until ctx is done.
type Constant struct {
	Interval    time.Duration
	MaxAttempts int
}

// BackOff implements Policy.
func (p Constant) BackOff() backoff.BackOff {
	var b backoff.BackOff = backoff.NewConstantBackOff(p.Interval)
	if p.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts))
	}
	b.Reset()
	return b
}

// Exponential retries up to MaxAttempts times with exponentially growing
// delays starting at InitialInterval. MaxAttempts <= 0 means retry until
// ctx is done.
type Exponential struct {
	InitialInterval time.Duration
	MaxAttempts     int
}

// BackOff implements Policy.
func (p Exponential) BackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	var b backoff.BackOff = eb
	if p.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(eb, uint64(p.MaxAttempts))
	}
	b.Reset()
	return b
}
