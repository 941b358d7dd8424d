/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"context"
	"net/http"
	"time"

	"github.com/ismp-tools/go-crpt/log"
)

// LoggingMode represents a mode of request logging.
type LoggingMode string

// Logging modes.
const (
	LoggingModeNone   LoggingMode = "none"
	LoggingModeAll    LoggingMode = "all"
	LoggingModeFailed LoggingMode = "failed"
)

// IsValid checks if the logging mode is valid.
func (lm LoggingMode) IsValid() bool {
	switch lm {
	case LoggingModeNone, LoggingModeAll, LoggingModeFailed:
		return true
	}
	return false
}

// LoggingRoundTripper logs outgoing submissions in structured form.
// Request bodies are never logged, only method, URL, status and duration.
type LoggingRoundTripper struct {
	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// Opts are the options for the logging round tripper.
	Opts LoggingRoundTripperOpts
}

// LoggingRoundTripperOpts represents options for LoggingRoundTripper.
type LoggingRoundTripperOpts struct {
	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// Mode of logging: none, all, failed.
	Mode LoggingMode

	// SlowRequestThreshold makes a successful request loggable in failed
	// mode when it took at least this long.
	SlowRequestThreshold time.Duration
}

// NewLoggingRoundTripperWithOpts creates an HTTP transport that logs requests.
func NewLoggingRoundTripperWithOpts(delegate http.RoundTripper, opts LoggingRoundTripperOpts) http.RoundTripper {
	return &LoggingRoundTripper{Delegate: delegate, Opts: opts}
}

func (rt *LoggingRoundTripper) getLogger(ctx context.Context) log.FieldLogger {
	if rt.Opts.LoggerProvider != nil {
		return rt.Opts.LoggerProvider(ctx)
	}
	return nil
}

// RoundTrip logs the exchange per the configured mode.
func (rt *LoggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if rt.Opts.Mode == LoggingModeNone {
		return rt.Delegate.RoundTrip(r)
	}

	logger := rt.getLogger(r.Context())
	if logger == nil {
		return rt.Delegate.RoundTrip(r)
	}

	start := time.Now()
	resp, err := rt.Delegate.RoundTrip(r)
	elapsed := time.Since(start)

	fields := []log.Field{
		log.String("method", r.Method),
		log.String("url", r.URL.String()),
		log.DurationIn(elapsed, time.Millisecond),
	}
	if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
		fields = append(fields, log.String("request_id", requestID))
	}

	if err != nil {
		logger.Error("client http request failed", append(fields, log.Error(err))...)
		return resp, err
	}

	fields = append(fields, log.Int("status_code", resp.StatusCode))
	failed := resp.StatusCode >= http.StatusBadRequest
	slow := rt.Opts.SlowRequestThreshold > 0 && elapsed >= rt.Opts.SlowRequestThreshold
	if rt.Opts.Mode == LoggingModeFailed && !failed && !slow {
		return resp, nil
	}
	if failed {
		logger.Error("client http request finished", fields...)
	} else {
		logger.Info("client http request finished", fields...)
	}
	return resp, nil
}
