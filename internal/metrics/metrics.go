package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "resume_matcher"

var (
	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total number of analysis batches, labeled by final status.",
		},
		[]string{"status"},
	)

	CandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Total number of candidate documents processed, labeled by format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	ScoringDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Latency of a single scoring call to the model backend (seconds).",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	CleanupFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanup_failures_total",
			Help:      "Total number of working files that could not be removed.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		BatchesTotal,
		CandidatesTotal,
		ScoringDurationSeconds,
		CleanupFailuresTotal,
	)
}
