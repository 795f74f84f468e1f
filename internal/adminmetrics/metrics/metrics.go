// Package metrics exposes prometheus metrics for snapshot builds.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotDuration tracks how long a full snapshot fan-out takes.
	SnapshotDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "plangate_admin_snapshot_duration_seconds",
		Help:    "Latency of building an admin metrics snapshot.",
		Buckets: prometheus.DefBuckets,
	})

	// SnapshotFailures counts snapshot builds that failed outright.
	SnapshotFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plangate_admin_snapshot_failures_total",
		Help: "Total number of failed admin metrics snapshot builds.",
	})
)
