package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/da-committer/da-committer/metrics"
	"github.com/da-committer/da-committer/types"
)

func TestCommitterMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewCommitterMetrics(registry)

	m.RecordCurrentHeightToCommit(4000)
	m.RecordSubmittedFragments(8, 10)
	m.RecordStatusTransition(types.Finalized)
	m.RecordStatusTransition(types.Finalized)

	now := time.Unix(1_700_000_100, 0)
	m.RecordFinalization(now, now.Add(-90*time.Second))

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

	require.Equal(t, float64(4000), values["current_height_to_commit"])
	require.Equal(t, float64(8), values["submitted_fragments_total"])
	require.Equal(t, float64(2), values["dropped_fragments_total"])
	require.Equal(t, float64(2), values["submission_status_transitions_total"])
	require.Equal(t, float64(1_700_000_100), values["last_finalization_time"])
	require.Equal(t, float64(90), values["seconds_from_earliest_submission_to_finalization"])
}

func TestConfigAddress(t *testing.T) {
	cfg := metrics.DefaultConfig()
	addr, err := cfg.Address()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:2112", addr)

	cfg.Host = "not-an-ip"
	_, err = cfg.Address()
	require.Error(t, err)
}
