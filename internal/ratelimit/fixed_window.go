/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package ratelimit

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// FixedWindowLimiter implements the fixed window counter algorithm: at most
// Rate.Count admissions are granted per window of Rate.Duration. Callers that
// would exceed the quota wait for the next window boundary and are admitted
// in the order they started waiting.
//
// The window is advanced lazily on admission attempts, there is no background
// timer while the limiter is idle. time.Now values carry a monotonic clock
// reading, so wall clock adjustments cannot rewind the window.
type FixedWindowLimiter struct {
	capacity int
	window   time.Duration

	mu          sync.Mutex
	windowStart time.Time
	gen         uint64 // incremented on every window advance
	used        int
	waiters     *list.List  // of *fixedWindowWaiter, FIFO
	timer       *time.Timer // armed only while waiters exist

	admitted atomic.Int64
	rejected atomic.Int64
	waiting  atomic.Int64
}

type fixedWindowWaiter struct {
	ready chan struct{} // closed on admission
	gen   uint64        // window generation the slot was granted in
}

var _ Limiter = (*FixedWindowLimiter)(nil)

// NewFixedWindowLimiter creates a new fixed window rate limiter.
func NewFixedWindowLimiter(maxRate Rate) (*FixedWindowLimiter, error) {
	if maxRate.Count <= 0 {
		return nil, fmt.Errorf("rate count must be positive, got %d", maxRate.Count)
	}
	if maxRate.Duration <= 0 {
		return nil, fmt.Errorf("rate duration must be positive, got %s", maxRate.Duration)
	}
	return &FixedWindowLimiter{
		capacity:    maxRate.Count,
		window:      maxRate.Duration,
		windowStart: time.Now(),
		waiters:     list.New(),
	}, nil
}

// TryAcquire admits immediately if the current window has a free slot.
// Callers already waiting for the next window keep their priority:
// TryAcquire never jumps the queue.
func (l *FixedWindowLimiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advanceWindowLocked(time.Now())
	if l.waiters.Len() == 0 && l.used < l.capacity {
		l.used++
		l.admitted.Inc()
		return true
	}
	l.rejected.Inc()
	return false
}

// Acquire blocks until an admission slot is available or ctx is done.
func (l *FixedWindowLimiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	now := time.Now()
	l.advanceWindowLocked(now)
	if l.waiters.Len() == 0 && l.used < l.capacity {
		l.used++
		l.mu.Unlock()
		l.admitted.Inc()
		return nil
	}
	w := &fixedWindowWaiter{ready: make(chan struct{})}
	elem := l.waiters.PushBack(w)
	l.armTimerLocked(now)
	l.mu.Unlock()

	l.waiting.Inc()
	defer l.waiting.Dec()

	select {
	case <-w.ready:
		l.admitted.Inc()
		return nil

	case <-ctx.Done():
		l.mu.Lock()
		select {
		case <-w.ready:
			// Admission and cancellation raced.
			l.returnSlotLocked(w)
		default:
			l.waiters.Remove(elem)
		}
		l.mu.Unlock()
		l.rejected.Inc()
		return ctx.Err()
	}
}

// returnSlotLocked hands back a slot granted to a waiter that got cancelled
// before it could use it, so a cancelled caller leaves no trace in the
// window accounting. The slot is returned only while the window it was
// granted in is still current: a slot from a window that has passed expired
// with that window and must not reduce a later window's count.
func (l *FixedWindowLimiter) returnSlotLocked(w *fixedWindowWaiter) {
	l.advanceWindowLocked(time.Now())
	if w.gen != l.gen {
		return
	}
	l.used--
	l.admitWaitersLocked()
}

// Release returns one previously acquired slot. The fixed window counter
// tracks throughput, not in-flight requests, so releasing is a no-op.
func (l *FixedWindowLimiter) Release() {}

// Stats is a snapshot of the limiter counters.
type Stats struct {
	// Admitted is the total number of granted admissions.
	Admitted int64
	// Rejected is the total number of failed attempts (immediate or cancelled).
	Rejected int64
	// Waiting is the number of callers currently blocked in Acquire.
	Waiting int64
}

// Stats returns a snapshot of the limiter counters.
func (l *FixedWindowLimiter) Stats() Stats {
	return Stats{
		Admitted: l.admitted.Load(),
		Rejected: l.rejected.Load(),
		Waiting:  l.waiting.Load(),
	}
}

// advanceWindowLocked rolls the window forward by whole multiples of its
// duration so that now falls inside it, resetting the admission counter.
func (l *FixedWindowLimiter) advanceWindowLocked(now time.Time) {
	elapsed := now.Sub(l.windowStart)
	if elapsed < l.window {
		return
	}
	l.windowStart = l.windowStart.Add(time.Duration(elapsed/l.window) * l.window)
	l.used = 0
	l.gen++
}

// armTimerLocked schedules a dispatch at the next window boundary
// unless one is already scheduled.
func (l *FixedWindowLimiter) armTimerLocked(now time.Time) {
	if l.timer != nil {
		return
	}
	d := l.windowStart.Add(l.window).Sub(now)
	if d < 0 {
		d = 0
	}
	l.timer = time.AfterFunc(d, l.dispatch)
}

// dispatch runs at a window boundary: it resets the window and admits
// waiters in FIFO order until the new window's capacity is exhausted.
func (l *FixedWindowLimiter) dispatch() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.timer = nil
	now := time.Now()
	l.advanceWindowLocked(now)
	l.admitWaitersLocked()
	if l.waiters.Len() > 0 {
		l.armTimerLocked(now)
	}
}

func (l *FixedWindowLimiter) admitWaitersLocked() {
	for l.waiters.Len() > 0 && l.used < l.capacity {
		elem := l.waiters.Front()
		l.waiters.Remove(elem)
		l.used++
		w := elem.Value.(*fixedWindowWaiter)
		w.gen = l.gen
		close(w.ready)
	}
}
