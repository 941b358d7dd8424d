/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"context"
	"net/http"

	"github.com/ismp-tools/go-crpt/log"
)

// CloneHTTPRequest creates a shallow copy of the request along with a deep copy of the Headers.
func CloneHTTPRequest(req *http.Request) *http.Request {
	r := new(http.Request)
	*r = *req
	r.Header = CloneHTTPHeader(req.Header)
	return r
}

// CloneHTTPHeader creates a deep copy of an http.Header.
func CloneHTTPHeader(in http.Header) http.Header {
	out := make(http.Header, len(in))
	for key, values := range in {
		newValues := make([]string, len(values))
		copy(newValues, values)
		out[key] = newValues
	}
	return out
}

// Opts provides options for NewWithOpts.
type Opts struct {
	// UserAgent is the User-Agent header value for outgoing requests.
	// DefaultUserAgent is used when empty.
	UserAgent string

	// Delegate is the innermost RoundTripper in the chain.
	// A clone of http.DefaultTransport is used when nil.
	Delegate http.RoundTripper

	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// RequestIDProvider is a function that provides a request ID.
	RequestIDProvider func(ctx context.Context) string

	// Collector is a metrics collector. NewPrometheusMetricsCollector is
	// used when nil and metrics are enabled.
	Collector MetricsCollector
}

// DefaultUserAgent identifies this client on the wire.
const DefaultUserAgent = "go-crpt"

// newHTTPClient builds the transport chain: request id and user agent are
// set closest to the caller, then metrics and logging observe the final
// form of each request.
func newHTTPClient(cfg *Config, opts Opts) *http.Client {
	delegate := opts.Delegate
	if delegate == nil {
		delegate = http.DefaultTransport.(*http.Transport).Clone()
	}

	if cfg.Logger.Enabled {
		delegate = NewLoggingRoundTripperWithOpts(delegate, LoggingRoundTripperOpts{
			LoggerProvider:       opts.LoggerProvider,
			Mode:                 cfg.Logger.Mode,
			SlowRequestThreshold: cfg.Logger.SlowRequestThreshold,
		})
	}

	if cfg.Metrics.Enabled {
		delegate = NewMetricsRoundTripper(delegate, opts.Collector)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	delegate = NewUserAgentRoundTripper(delegate, userAgent)
	delegate = NewRequestIDRoundTripper(delegate, opts.RequestIDProvider)

	return &http.Client{Transport: delegate, Timeout: cfg.Timeout}
}
