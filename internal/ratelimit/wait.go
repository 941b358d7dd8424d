/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"time"
)

// waitUntilAllowed repeatedly calls try until it reports an admission or ctx
// is done. try returns whether the request is admitted and, if not, how long
// to wait before the next attempt.
func waitUntilAllowed(ctx context.Context, try func() (allow bool, retryAfter time.Duration)) error {
	allow, retryAfter := try()
	if allow {
		return nil
	}

	retryTimer := time.NewTimer(retryAfter)
	defer retryTimer.Stop()

	for {
		select {
		case <-retryTimer.C:
			// Will do another admission check.
		case <-ctx.Done():
			return ctx.Err()
		}

		if allow, retryAfter = try(); allow {
			return nil
		}

		if !retryTimer.Stop() {
			select {
			case <-retryTimer.C:
			default:
			}
		}
		retryTimer.Reset(retryAfter)
	}
}
