/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ismp-tools/go-crpt/log"
	"github.com/ismp-tools/go-crpt/log/logtest"
)

func doRequest(t *testing.T, rt http.RoundTripper, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, http.NoBody)
	require.NoError(t, err)
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp
}

func TestLoggingRoundTripper(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(status)
	}))
	defer server.Close()

	recorder := logtest.NewRecorder()
	provider := func(ctx context.Context) log.FieldLogger { return recorder }

	t.Run("mode all logs successes", func(t *testing.T) {
		defer recorder.Reset()
		rt := NewLoggingRoundTripperWithOpts(http.DefaultTransport, LoggingRoundTripperOpts{
			LoggerProvider: provider,
			Mode:           LoggingModeAll,
		})
		doRequest(t, rt, server.URL)
		entry, found := recorder.FindEntry("client http request finished")
		require.True(t, found)
		statusField, found := entry.FindField("status_code")
		require.True(t, found)
		require.EqualValues(t, http.StatusOK, statusField.Int)
	})

	t.Run("mode failed skips successes", func(t *testing.T) {
		defer recorder.Reset()
		rt := NewLoggingRoundTripperWithOpts(http.DefaultTransport, LoggingRoundTripperOpts{
			LoggerProvider: provider,
			Mode:           LoggingModeFailed,
		})
		doRequest(t, rt, server.URL)
		require.Empty(t, recorder.Entries())

		status = http.StatusBadGateway
		defer func() { status = http.StatusOK }()
		doRequest(t, rt, server.URL)
		entry, found := recorder.FindEntry("client http request finished")
		require.True(t, found)
		require.Equal(t, log.LevelError, entry.Level)
	})

	t.Run("mode none logs nothing", func(t *testing.T) {
		defer recorder.Reset()
		rt := NewLoggingRoundTripperWithOpts(http.DefaultTransport, LoggingRoundTripperOpts{
			LoggerProvider: provider,
			Mode:           LoggingModeNone,
		})
		doRequest(t, rt, server.URL)
		require.Empty(t, recorder.Entries())
	})

	t.Run("slow request logged in failed mode", func(t *testing.T) {
		defer recorder.Reset()
		rt := NewLoggingRoundTripperWithOpts(http.DefaultTransport, LoggingRoundTripperOpts{
			LoggerProvider:       provider,
			Mode:                 LoggingModeFailed,
			SlowRequestThreshold: time.Nanosecond,
		})
		doRequest(t, rt, server.URL)
		_, found := recorder.FindEntry("client http request finished")
		require.True(t, found)
	})
}

func TestUserAgentRoundTripper(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	rt := NewUserAgentRoundTripper(http.DefaultTransport, "go-crpt/test")
	doRequest(t, rt, server.URL)
	require.Equal(t, "go-crpt/test", gotUserAgent)

	req, err := http.NewRequest(http.MethodPost, server.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom")
	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, "custom", gotUserAgent)
}

func TestRequestIDRoundTripper(t *testing.T) {
	var gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
	}))
	defer server.Close()

	t.Run("generates xid by default", func(t *testing.T) {
		rt := NewRequestIDRoundTripper(http.DefaultTransport, nil)
		doRequest(t, rt, server.URL)
		require.NotEmpty(t, gotRequestID)
	})

	t.Run("uses provider", func(t *testing.T) {
		rt := NewRequestIDRoundTripper(http.DefaultTransport, func(ctx context.Context) string {
			return "req-42"
		})
		doRequest(t, rt, server.URL)
		require.Equal(t, "req-42", gotRequestID)
	})

	t.Run("keeps present header", func(t *testing.T) {
		rt := NewRequestIDRoundTripper(http.DefaultTransport, nil)
		req, err := http.NewRequest(http.MethodPost, server.URL, http.NoBody)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "preset")
		resp, err := rt.RoundTrip(req)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, "preset", gotRequestID)
	})
}

type testCollector struct {
	requestStatuses []string
	waitObserved    int
}

func (c *testCollector) RequestDuration(_, status string, _ time.Time) {
	c.requestStatuses = append(c.requestStatuses, status)
}

func (c *testCollector) RateLimitWaitDuration(_ time.Time) {
	c.waitObserved++
}

func TestMetricsRoundTripper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	collector := &testCollector{}
	rt := NewMetricsRoundTripper(http.DefaultTransport, collector)
	doRequest(t, rt, server.URL)
	require.Equal(t, []string{"202"}, collector.requestStatuses)
}

func TestClientObservesRateLimitWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig(server.URL, 1, time.Second)
	cfg.Metrics.Enabled = true
	collector := &testCollector{}
	client, err := NewWithOpts(cfg, Opts{Collector: collector})
	require.NoError(t, err)

	require.NoError(t, client.Submit(context.Background(), testDocument(), "sig"))
	require.Equal(t, 1, collector.waitObserved)
	require.Equal(t, []string{"200"}, collector.requestStatuses)
}
