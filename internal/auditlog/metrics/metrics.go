// Package metrics exposes Prometheus instrumentation for the audit log.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntriesAppended counts audit entries appended, labeled by event type.
	EntriesAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plangate_audit_entries_total",
		Help: "Total number of audit entries appended, by event type.",
	}, []string{"type"})

	// AppendFailures counts append attempts rejected by the store.
	AppendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plangate_audit_append_failures_total",
		Help: "Total number of audit entries that failed to append.",
	})
)
