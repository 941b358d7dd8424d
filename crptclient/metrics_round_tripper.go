/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is an interface for collecting client metrics.
type MetricsCollector interface {
	// RequestDuration observes the duration of one HTTP exchange and its status.
	// Status is the HTTP status code, or "0" when no response was obtained.
	RequestDuration(remoteAddress, status string, startTime time.Time)

	// RateLimitWaitDuration observes how long a submission waited for an
	// admission slot.
	RateLimitWaitDuration(startTime time.Time)
}

// PrometheusMetricsCollector is a Prometheus metrics collector.
type PrometheusMetricsCollector struct {
	// Durations is a histogram of submission request durations.
	Durations *prometheus.HistogramVec

	// RateLimitWaits is a histogram of admission wait durations.
	RateLimitWaits prometheus.Histogram
}

// NewPrometheusMetricsCollector creates a new Prometheus metrics collector.
func NewPrometheusMetricsCollector(namespace string) *PrometheusMetricsCollector {
	return &PrometheusMetricsCollector{
		Durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crpt_client_request_duration_seconds",
			Help:      "A histogram of document submission request durations.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"remote_address", "status"}),
		RateLimitWaits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crpt_client_rate_limit_wait_duration_seconds",
			Help:      "A histogram of time spent waiting for a rate limit slot.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		}),
	}
}

// MustRegister registers the Prometheus metrics.
func (p *PrometheusMetricsCollector) MustRegister() {
	prometheus.MustRegister(p.Durations, p.RateLimitWaits)
}

// Unregister the Prometheus metrics.
func (p *PrometheusMetricsCollector) Unregister() {
	prometheus.Unregister(p.Durations)
	prometheus.Unregister(p.RateLimitWaits)
}

// RequestDuration observes the duration of one HTTP exchange and its status.
func (p *PrometheusMetricsCollector) RequestDuration(remoteAddress, status string, start time.Time) {
	p.Durations.WithLabelValues(remoteAddress, status).Observe(time.Since(start).Seconds())
}

// RateLimitWaitDuration observes how long a submission waited for a slot.
func (p *PrometheusMetricsCollector) RateLimitWaitDuration(start time.Time) {
	p.RateLimitWaits.Observe(time.Since(start).Seconds())
}

// MetricsRoundTripper measures outgoing requests.
type MetricsRoundTripper struct {
	// Delegate is the next RoundTripper in the chain.
	Delegate http.RoundTripper

	// Collector is a metrics collector.
	Collector MetricsCollector
}

// NewMetricsRoundTripper creates an HTTP transport that measures requests done.
func NewMetricsRoundTripper(delegate http.RoundTripper, collector MetricsCollector) http.RoundTripper {
	return &MetricsRoundTripper{Delegate: delegate, Collector: collector}
}

// RoundTrip measures external requests done.
func (rt *MetricsRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if rt.Collector == nil {
		return rt.Delegate.RoundTrip(r)
	}

	status := "0"
	start := time.Now()
	resp, err := rt.Delegate.RoundTrip(r)
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	rt.Collector.RequestDuration(r.Host, status, start)
	return resp, err
}
