/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

// Package testutil provides helpers for asserting on Prometheus metrics in tests.
package testutil

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type tHelper interface {
	Helper()
}

// SamplesCountInHistogram gathers the collector (a Histogram or a
// HistogramVec) and returns the total number of observed samples.
func SamplesCountInHistogram(t require.TestingT, c prometheus.Collector) int {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)

	count := 0
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			count += int(m.GetHistogram().GetSampleCount())
		}
	}
	return count
}

// RequireSamplesCountInHistogram fails the test unless the collector holds
// exactly the wanted number of histogram samples.
func RequireSamplesCountInHistogram(t require.TestingT, c prometheus.Collector, want int) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	require.Equal(t, want, SamplesCountInHistogram(t, c))
}
