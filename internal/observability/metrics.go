// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Stream metrics
	EventsObserved    prometheus.Counter
	DuplicatesSkipped prometheus.Counter
	StreamReconnects  prometheus.Counter
	DedupWindowSize   prometheus.Gauge
	HighestSlotSeen   prometheus.Gauge

	// Analysis metrics
	VerdictsTotal   *prometheus.CounterVec
	AnalysisLatency prometheus.Histogram

	// Execution metrics
	ExecutionsSettled *prometheus.CounterVec
	ActiveExecutions  prometheus.Gauge
	ExecutionDuration prometheus.Histogram
	RecoveryAttempts  *prometheus.CounterVec
	RealizedProfitSum prometheus.Counter

	// Health metrics
	LastEventTimestamp prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "sandwich_engine"
	}

	return &Metrics{
		// Stream metrics
		EventsObserved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "events_observed_total",
			Help:      "Total number of candidate events received from the log stream",
		}),
		DuplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "duplicates_skipped_total",
			Help:      "Total number of events dropped by the deduplicator",
		}),
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Total number of log stream reconnects",
		}),
		DedupWindowSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "dedup_window_size",
			Help:      "Current number of signatures in the deduplication window",
		}),
		HighestSlotSeen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),

		// Analysis metrics
		VerdictsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "verdicts_total",
			Help:      "Total number of analyzer verdicts by kind",
		}, []string{"kind"}),
		AnalysisLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "latency_seconds",
			Help:      "Candidate analysis latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),

		// Execution metrics
		ExecutionsSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "settled_total",
			Help:      "Total number of settled executions by outcome",
		}, []string{"outcome"}),
		ActiveExecutions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "active",
			Help:      "Number of executions currently in flight",
		}),
		ExecutionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "duration_seconds",
			Help:      "Execution duration from admission to settlement in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		RecoveryAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "recovery_attempts_total",
			Help:      "Total number of recovery sells by result",
		}, []string{"result"}),
		RealizedProfitSum: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "execution",
			Name:      "realized_profit_lamports_total",
			Help:      "Cumulative realized profit from successful executions in lamports",
		}),

		// Health metrics
		LastEventTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_event_timestamp",
			Help:      "Unix timestamp of the last candidate event received",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ExecutionSettled records one settled execution.
func (m *Metrics) ExecutionSettled(outcome string, seconds float64) {
	m.ExecutionsSettled.WithLabelValues(outcome).Inc()
	m.ExecutionDuration.Observe(seconds)
}

// SetActiveExecutions updates the in-flight execution gauge.
func (m *Metrics) SetActiveExecutions(n int) {
	m.ActiveExecutions.Set(float64(n))
}

// RecordVerdict increments the verdict counter for a kind.
func (m *Metrics) RecordVerdict(kind string) {
	m.VerdictsTotal.WithLabelValues(kind).Inc()
}

// RecordRecovery records a recovery attempt result.
func (m *Metrics) RecordRecovery(succeeded bool) {
	result := "failed"
	if succeeded {
		result = "succeeded"
	}
	m.RecoveryAttempts.WithLabelValues(result).Inc()
}
