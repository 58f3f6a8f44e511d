// Package metrics provides Prometheus observability for the merge engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the merge engine's Prometheus collectors.
type Metrics struct {
	// Merge outcomes by result
	MergeOutcome *prometheus.CounterVec

	// Optimistic-concurrency conflicts that triggered a retry
	VersionConflicts prometheus.Counter

	// Merges abandoned after exhausting retries
	RetriesExhausted prometheus.Counter

	// End-to-end merge latency including persistence
	MergeLatency prometheus.Histogram
}

// New creates a Metrics instance with all merge engine metrics registered
// on the default registry.
func New() *Metrics {
	return &Metrics{
		MergeOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blueprint_merge_outcomes_total",
			Help: "Total merge attempts by outcome",
		}, []string{"outcome"}), // outcome: "applied", "noop", "error"

		VersionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blueprint_merge_version_conflicts_total",
			Help: "Version conflicts detected during optimistic merge updates",
		}),

		RetriesExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blueprint_merge_retries_exhausted_total",
			Help: "Merges abandoned after exhausting the retry budget",
		}),

		MergeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "blueprint_merge_duration_seconds",
			Help:    "Duration of a full merge including persistence and retries",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementOutcome records the final result of a merge attempt.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.MergeOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementConflict records one optimistic-concurrency retry.
func (m *Metrics) IncrementConflict() {
	if m != nil {
		m.VersionConflicts.Inc()
	}
}

// IncrementRetriesExhausted records a merge that gave up under contention.
func (m *Metrics) IncrementRetriesExhausted() {
	if m != nil {
		m.RetriesExhausted.Inc()
	}
}

// ObserveMergeLatency records the total merge duration.
func (m *Metrics) ObserveMergeLatency(d time.Duration) {
	if m != nil {
		m.MergeLatency.Observe(d.Seconds())
	}
}
