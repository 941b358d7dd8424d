/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// TokenBucketLimiter smooths admissions over the window instead of granting
// them in bursts at window boundaries. Built on golang.org/x/time/rate.
type TokenBucketLimiter struct {
	limiter *rate.Limiter
}

var _ Limiter = (*TokenBucketLimiter)(nil)

// NewTokenBucketLimiter creates a new token bucket rate limiter.
// Burst defaults to maxRate.Count, which allows the whole window's quota
// to be spent back-to-back after an idle period.
func NewTokenBucketLimiter(maxRate Rate, burst int) (*TokenBucketLimiter, error) {
	if maxRate.Count <= 0 {
		return nil, fmt.Errorf("rate count must be positive, got %d", maxRate.Count)
	}
	if maxRate.Duration <= 0 {
		return nil, fmt.Errorf("rate duration must be positive, got %s", maxRate.Duration)
	}
	if burst < 0 {
		return nil, fmt.Errorf("burst must not be negative, got %d", burst)
	}
	if burst == 0 {
		burst = maxRate.Count
	}
	limit := rate.Limit(float64(maxRate.Count) / maxRate.Duration.Seconds())
	return &TokenBucketLimiter{rate.NewLimiter(limit, burst)}, nil
}

// Acquire blocks until a token is available or ctx is done.
// rate.Limiter serves waiters in FIFO order.
func (l *TokenBucketLimiter) Acquire(ctx context.Context) error {
	err := l.limiter.Wait(ctx)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	// Wait refuses up front when the deadline cannot fit the token delay;
	// report it as the deadline outcome it is.
	return context.DeadlineExceeded
}

// TryAcquire admits immediately if a token is available.
func (l *TokenBucketLimiter) TryAcquire() bool {
	return l.limiter.Allow()
}

// Release is a no-op: tokens are replenished by time, not by completions.
func (l *TokenBucketLimiter) Release() {}
