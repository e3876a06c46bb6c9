package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/da-committer/da-committer/types"
)

// CommitterMetrics holds the gauges and counters exported by the fragment
// submitter and the finality tracker.
type CommitterMetrics struct {
	currentHeightToCommit      prometheus.Gauge
	submittedFragments         prometheus.Counter
	droppedFragments           prometheus.Counter
	lastFinalizationTime       prometheus.Gauge
	lastFinalizationInterval   prometheus.Gauge
	statusTransitions          *prometheus.CounterVec
	pendingSubmissions         prometheus.Gauge
	failedCycles               *prometheus.CounterVec
	lastSuccessfulTickUnixTime *prometheus.GaugeVec
}

// NewCommitterMetrics creates the metrics and registers them on registry.
func NewCommitterMetrics(registry prometheus.Registerer) *CommitterMetrics {
	m := &CommitterMetrics{
		currentHeightToCommit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "current_height_to_commit",
			Help: "The starting rollup height of the fragments being committed or to be committed next",
		}),
		submittedFragments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "submitted_fragments_total",
			Help: "The total number of fragments accepted by the DA layer",
		}),
		droppedFragments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dropped_fragments_total",
			Help: "The total number of selected fragments that did not produce a DA transaction",
		}),
		lastFinalizationTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "last_finalization_time",
			Help: "The unix time of the last observed submission finalization",
		}),
		lastFinalizationInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seconds_from_earliest_submission_to_finalization",
			Help: "The number of seconds from the earliest submission to finalization",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "submission_status_transitions_total",
			Help: "The total number of persisted submission status transitions",
		}, []string{"status"}),
		pendingSubmissions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pending_submissions",
			Help: "The number of submissions not yet in a terminal status",
		}),
		failedCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "failed_cycles_total",
			Help: "The total number of failed ticks",
		}, []string{"component"}),
		lastSuccessfulTickUnixTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "last_successful_tick_unix_time",
			Help: "The unix time of the last successful tick",
		}, []string{"component"}),
	}

	registry.MustRegister(
		m.currentHeightToCommit,
		m.submittedFragments,
		m.droppedFragments,
		m.lastFinalizationTime,
		m.lastFinalizationInterval,
		m.statusTransitions,
		m.pendingSubmissions,
		m.failedCycles,
		m.lastSuccessfulTickUnixTime,
	)

	return m
}

func (m *CommitterMetrics) RecordCurrentHeightToCommit(height uint32) {
	m.currentHeightToCommit.Set(float64(height))
}

func (m *CommitterMetrics) RecordSubmittedFragments(submitted, selected int) {
	m.submittedFragments.Add(float64(submitted))
	if selected > submitted {
		m.droppedFragments.Add(float64(selected - submitted))
	}
}

// RecordFinalization records a finalization observed at now for submissions
// of which the earliest was created at earliest.
func (m *CommitterMetrics) RecordFinalization(now, earliest time.Time) {
	m.lastFinalizationTime.Set(float64(now.Unix()))
	m.lastFinalizationInterval.Set(now.Sub(earliest).Seconds())
}

func (m *CommitterMetrics) RecordStatusTransition(status types.DispersalStatus) {
	m.statusTransitions.WithLabelValues(status.Kind.String()).Inc()
}

func (m *CommitterMetrics) RecordPendingSubmissions(n int) {
	m.pendingSubmissions.Set(float64(n))
}

func (m *CommitterMetrics) RecordFailedCycle(component string) {
	m.failedCycles.WithLabelValues(component).Inc()
}

func (m *CommitterMetrics) RecordSuccessfulTick(component string, at time.Time) {
	m.lastSuccessfulTickUnixTime.WithLabelValues(component).Set(float64(at.Unix()))
}
