package service_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/da-committer/da-committer/metrics"
)

func newTestMetrics() (*metrics.CommitterMetrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()

	return metrics.NewCommitterMetrics(registry), registry
}

// metricValues sums counters and takes gauges by metric family name.
func metricValues(t *testing.T, registry *prometheus.Registry) map[string]float64 {
	families, err := registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				values[mf.GetName()] += metric.GetCounter().GetValue()
			}
		}
	}

	return values
}
