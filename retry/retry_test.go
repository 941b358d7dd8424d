/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Constant{Interval: time.Millisecond, MaxAttempts: 5}, nil, nil,
		func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")
	attempts := 0
	err := Do(context.Background(), Constant{Interval: time.Millisecond, MaxAttempts: 5},
		func(err error) bool { return !errors.Is(err, permanent) }, nil,
		func(ctx context.Context) error {
			attempts++
			return permanent
		})
	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	transient := errors.New("still broken")
	attempts := 0
	err := Do(context.Background(), Constant{Interval: time.Millisecond, MaxAttempts: 3}, nil, nil,
		func(ctx context.Context) error {
			attempts++
			return transient
		})
	require.ErrorIs(t, err, transient)
	require.Equal(t, 4, attempts) // initial call plus three retries
}

func TestDoRespectsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*30)
	defer cancel()
	attempts := 0
	err := Do(ctx, Constant{Interval: time.Hour}, nil, nil,
		func(ctx context.Context) error {
			attempts++
			return errors.New("transient")
		})
	require.Error(t, err)
	require.Equal(t, 1, attempts)
}

func TestDoNotifiesOnRetry(t *testing.T) {
	var delays []time.Duration
	_ = Do(context.Background(), Exponential{InitialInterval: time.Millisecond, MaxAttempts: 2}, nil,
		func(err error, d time.Duration) { delays = append(delays, d) },
		func(ctx context.Context) error { return errors.New("transient") })
	require.Len(t, delays, 2)
}
