/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ismp-tools/go-crpt/testutil"
)

func TestPrometheusMetricsCollector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	collector := NewPrometheusMetricsCollector("test")
	rt := NewMetricsRoundTripper(http.DefaultTransport, collector)
	doRequest(t, rt, server.URL)
	doRequest(t, rt, server.URL)
	testutil.RequireSamplesCountInHistogram(t, collector.Durations, 2)

	collector.RateLimitWaitDuration(time.Now())
	testutil.RequireSamplesCountInHistogram(t, collector.RateLimitWaits, 1)

	collector.MustRegister()
	require.NotPanics(t, collector.Unregister)
}
