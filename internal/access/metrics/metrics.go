// Package metrics exposes Prometheus instrumentation for access decisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Decisions counts evaluations by outcome and reason.
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plangate_access_decisions_total",
		Help: "Total number of access decisions, by outcome and reason.",
	}, []string{"allowed", "reason"})

	// EvaluationFailures counts evaluations that errored before producing
	// a decision, by stage.
	EvaluationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plangate_access_evaluation_failures_total",
		Help: "Total number of access evaluations that failed, by stage.",
	}, []string{"stage"})

	// EvaluationDuration observes end to end evaluation latency.
	EvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "plangate_access_evaluation_duration_seconds",
		Help:    "Access evaluation latency in seconds.",
		Buckets: prometheus.DefBuckets,
	})
)
