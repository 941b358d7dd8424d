/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import "net/http"

// UserAgentRoundTripper sets the User-Agent HTTP header on outgoing
// requests, leaving an already present header untouched.
type UserAgentRoundTripper struct {
	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// UserAgent is the header value to set.
	UserAgent string
}

// NewUserAgentRoundTripper creates a new UserAgentRoundTripper.
func NewUserAgentRoundTripper(delegate http.RoundTripper, userAgent string) http.RoundTripper {
	return &UserAgentRoundTripper{Delegate: delegate, UserAgent: userAgent}
}

// RoundTrip executes a single HTTP transaction, returning a Response for the provided Request.
func (rt *UserAgentRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("User-Agent") != "" {
		return rt.Delegate.RoundTrip(r)
	}
	r = CloneHTTPRequest(r)
	r.Header.Set("User-Agent", rt.UserAgent)
	return rt.Delegate.RoundTrip(r)
}
