/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

// Package crptclient implements a rate limited client for registering
// documents in the CRPT system. Any number of goroutines may submit
// concurrently, the client admits at most the configured number of
// submissions per time window and makes the rest wait their turn.
package crptclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ismp-tools/go-crpt/crpt"
	"github.com/ismp-tools/go-crpt/internal/ratelimit"
	"github.com/ismp-tools/go-crpt/retry"
)

// Client submits documents to the registration endpoint. It is safe for
// concurrent use; callers contend only inside the rate limiter, never at
// the network call.
type Client struct {
	httpClient  *http.Client
	limiter     ratelimit.Limiter
	url         string
	waitTimeout time.Duration
	collector   MetricsCollector
}

// New creates a Client from the given configuration.
func New(cfg *Config) (*Client, error) {
	return NewWithOpts(cfg, Opts{})
}

// Must creates a Client from the given configuration and panics on error.
func Must(cfg *Config) *Client {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// NewWithOpts creates a Client from the given configuration and options.
// It fails with InvalidConfigurationError when the quota, the window or
// the endpoint URL is unusable; no limiter state is created in that case.
func NewWithOpts(cfg *Config, opts Opts) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &InvalidConfigurationError{Inner: err}
	}

	limiter, err := newLimiter(cfg.RateLimits)
	if err != nil {
		return nil, &InvalidConfigurationError{Inner: err}
	}

	if cfg.Metrics.Enabled && opts.Collector == nil {
		opts.Collector = NewPrometheusMetricsCollector("")
	}

	return &Client{
		httpClient:  newHTTPClient(cfg, opts),
		limiter:     limiter,
		url:         cfg.URL,
		waitTimeout: cfg.RateLimits.WaitTimeout,
		collector:   opts.Collector,
	}, nil
}

func newLimiter(cfg RateLimitConfig) (ratelimit.Limiter, error) {
	maxRate := ratelimit.Rate{Count: cfg.Limit, Duration: cfg.Window}
	switch cfg.Alg {
	case "", AlgFixedWindow:
		return ratelimit.NewFixedWindowLimiter(maxRate)
	case AlgTokenBucket:
		return ratelimit.NewTokenBucketLimiter(maxRate, cfg.Burst)
	case AlgSlidingWindow:
		return ratelimit.NewSlidingWindowLimiter(maxRate)
	case AlgLeakyBucket:
		return ratelimit.NewLeakyBucketLimiter(maxRate, cfg.Burst)
	}
	return nil, fmt.Errorf("unknown rate limiting algorithm %q", cfg.Alg)
}

// Submit registers one document with its detached signature. It blocks
// until the rate limiter admits the submission, the wait timeout elapses,
// or ctx is done. The returned error is nil on a 2xx response, otherwise
// one of QuotaExceededError, TransportError or RemoteError; callers
// dispatch with errors.As.
func (c *Client) Submit(ctx context.Context, doc crpt.Document, signature string) error {
	sub := crpt.NewSubmission(doc, signature)
	if err := sub.Validate(); err != nil {
		// Fail before spending a rate limit slot.
		return err
	}
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.limiter.Release()

	return c.send(ctx, payload)
}

// acquire waits for an admission slot within the configured wait timeout.
func (c *Client) acquire(ctx context.Context) error {
	start := time.Now()
	defer func() {
		if c.collector != nil {
			c.collector.RateLimitWaitDuration(start)
		}
	}()

	if c.waitTimeout == 0 {
		if !c.limiter.TryAcquire() {
			return &QuotaExceededError{}
		}
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.waitTimeout)
	defer cancel()
	if err := c.limiter.Acquire(waitCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &QuotaExceededError{WaitTimeout: c.waitTimeout}
		}
		// Not a wait outcome but a limiter failure, e.g. a store error.
		return fmt.Errorf("acquire rate limit slot: %w", err)
	}
	return nil
}

// send performs the POST with an already admitted slot. Every exit path
// leaves the response body drained and closed so the connection is reused.
func (c *Client) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Inner: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Inner: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RemoteError{StatusCode: resp.StatusCode}
	}
	return nil
}

// DefaultRetryClassifier treats transport failures, exhausted quota and
// retriable remote statuses (429 and 5xx) as worth retrying.
func DefaultRetryClassifier(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.IsRetriable()
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var quotaErr *QuotaExceededError
	return errors.As(err, &quotaErr)
}

// SubmitWithRetry submits the document, retrying per the policy on errors
// accepted by DefaultRetryClassifier. Every attempt passes through the
// rate limiter, so retries never defeat the quota.
func (c *Client) SubmitWithRetry(ctx context.Context, doc crpt.Document, signature string, policy retry.Policy) error {
	return retry.Do(ctx, policy, DefaultRetryClassifier, nil, func(ctx context.Context) error {
		return c.Submit(ctx, doc, signature)
	})
}
