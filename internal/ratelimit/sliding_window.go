/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/RussellLuo/slidingwindow"
)

// SlidingWindowLimiter implements the sliding window algorithm: the effective
// count is interpolated between the previous and the current window, which
// avoids the double-burst around a fixed boundary.
type SlidingWindowLimiter struct {
	limiter *slidingwindow.Limiter
	maxRate Rate
}

var _ Limiter = (*SlidingWindowLimiter)(nil)

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(maxRate Rate) (*SlidingWindowLimiter, error) {
	if maxRate.Count <= 0 {
		return nil, fmt.Errorf("rate count must be positive, got %d", maxRate.Count)
	}
	if maxRate.Duration <= 0 {
		return nil, fmt.Errorf("rate duration must be positive, got %s", maxRate.Duration)
	}
	lim, _ := slidingwindow.NewLimiter(
		maxRate.Duration, int64(maxRate.Count), func() (slidingwindow.Window, slidingwindow.StopFunc) {
			return slidingwindow.NewLocalWindow()
		})
	return &SlidingWindowLimiter{limiter: lim, maxRate: maxRate}, nil
}

// Acquire blocks until the sliding window admits the request or ctx is done.
func (l *SlidingWindowLimiter) Acquire(ctx context.Context) error {
	return waitUntilAllowed(ctx, func() (bool, time.Duration) {
		if l.limiter.Allow() {
			return true, 0
		}
		now := time.Now()
		return false, now.Truncate(l.maxRate.Duration).Add(l.maxRate.Duration).Sub(now)
	})
}

// TryAcquire admits immediately if the sliding window has room.
func (l *SlidingWindowLimiter) TryAcquire() bool {
	return l.limiter.Allow()
}

// Release is a no-op for the sliding window algorithm.
func (l *SlidingWindowLimiter) Release() {}
