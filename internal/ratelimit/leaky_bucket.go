/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/throttled/throttled/v2"
	"github.com/throttled/throttled/v2/store/memstore"
)

// leakyBucketKey is the single accounting key: the client talks to one
// logical endpoint, per-key limiting is not needed.
const leakyBucketKey = "default"

// LeakyBucketLimiter implements GCRA (Generic Cell Rate Algorithm), a leaky
// bucket variant. A good explanation of the algorithm is provided here:
// https://brandur.org/rate-limiting#gcra.
type LeakyBucketLimiter struct {
	limiter *throttled.GCRARateLimiterCtx
}

var _ Limiter = (*LeakyBucketLimiter)(nil)

// NewLeakyBucketLimiter creates a new leaky bucket rate limiter.
func NewLeakyBucketLimiter(maxRate Rate, maxBurst int) (*LeakyBucketLimiter, error) {
	if maxRate.Count <= 0 {
		return nil, fmt.Errorf("rate count must be positive, got %d", maxRate.Count)
	}
	if maxRate.Duration <= 0 {
		return nil, fmt.Errorf("rate duration must be positive, got %s", maxRate.Duration)
	}
	if maxBurst < 0 {
		return nil, fmt.Errorf("burst must not be negative, got %d", maxBurst)
	}
	gcraStore, err := memstore.NewCtx(0)
	if err != nil {
		return nil, fmt.Errorf("new in-memory store: %w", err)
	}
	reqQuota := throttled.RateQuota{
		MaxRate:  throttled.PerDuration(maxRate.Count, maxRate.Duration),
		MaxBurst: maxBurst,
	}
	gcraLimiter, err := throttled.NewGCRARateLimiterCtx(gcraStore, reqQuota)
	if err != nil {
		return nil, fmt.Errorf("new GCRA rate limiter: %w", err)
	}
	return &LeakyBucketLimiter{gcraLimiter}, nil
}

// Acquire blocks until the bucket leaks enough to admit the request or ctx is done.
func (l *LeakyBucketLimiter) Acquire(ctx context.Context) error {
	var rlErr error
	waitErr := waitUntilAllowed(ctx, func() (bool, time.Duration) {
		limited, res, err := l.limiter.RateLimitCtx(ctx, leakyBucketKey, 1)
		if err != nil {
			rlErr = err
			return true, 0 // stop waiting, the error is returned below
		}
		return !limited, res.RetryAfter
	})
	if rlErr != nil {
		return rlErr
	}
	return waitErr
}

// TryAcquire admits immediately if the bucket has room.
func (l *LeakyBucketLimiter) TryAcquire() bool {
	limited, _, err := l.limiter.RateLimitCtx(context.Background(), leakyBucketKey, 1)
	return err == nil && !limited
}

// Release is a no-op for the leaky bucket algorithm.
func (l *LeakyBucketLimiter) Release() {}
