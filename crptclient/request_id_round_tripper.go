/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

// RequestIDRoundTripper sets the X-Request-ID header on outgoing requests
// so a submission can be correlated with server-side logs.
type RequestIDRoundTripper struct {
	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// RequestIDProvider is a function that provides a request ID.
	// A new xid is generated when nil.
	RequestIDProvider func(ctx context.Context) string
}

// NewRequestIDRoundTripper creates an HTTP transport with X-Request-ID header support.
func NewRequestIDRoundTripper(delegate http.RoundTripper, provider func(ctx context.Context) string) http.RoundTripper {
	return &RequestIDRoundTripper{Delegate: delegate, RequestIDProvider: provider}
}

// RoundTrip adds the X-Request-ID header to the request unless one is
// already present.
func (rt *RequestIDRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("X-Request-ID") != "" {
		return rt.Delegate.RoundTrip(r)
	}

	requestID := ""
	if rt.RequestIDProvider != nil {
		requestID = rt.RequestIDProvider(r.Context())
	}
	if requestID == "" {
		requestID = xid.New().String()
	}

	r = CloneHTTPRequest(r)
	r.Header.Set("X-Request-ID", requestID)
	return rt.Delegate.RoundTrip(r)
}
