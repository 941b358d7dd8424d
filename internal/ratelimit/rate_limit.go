/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

// Package ratelimit implements client-side rate limiting for outgoing requests.
//
// The package provides several interchangeable algorithms behind the Limiter
// interface. FixedWindowLimiter is the primary one: it admits at most N
// requests per fixed time window and serves blocked callers in FIFO order.
// Token bucket, sliding window and leaky bucket (GCRA) variants are available
// for callers that prefer smoothed admission over predictable bursts.
package ratelimit

import (
	"context"
	"time"
)

// Rate describes the frequency of requests.
type Rate struct {
	Count    int
	Duration time.Duration
}

// Limiter is the admission contract for outgoing requests.
type Limiter interface {
	// Acquire blocks the caller until an admission slot is available or ctx is done.
	// On ctx expiration the limiter state is left as if the call never happened.
	Acquire(ctx context.Context) error

	// TryAcquire admits immediately if a slot is available and never blocks.
	TryAcquire() bool

	// Release returns one previously acquired slot. Throughput-based algorithms
	// count admissions against time windows, not in-flight requests, so for them
	// it is a no-op; it exists so that pipelines always release capacity
	// symmetrically and a future in-flight cap has a single place to attach.
	Release()
}
