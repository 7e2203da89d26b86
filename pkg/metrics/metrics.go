// Package metrics exposes Prometheus metrics for the options framework:
// object creation through the registry, configuration operations, and their
// failures. Metrics register themselves on the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ObjectsCreated counts objects built through the object registry,
	// labeled by object family and type id.
	ObjectsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "options",
			Name:      "objects_created_total",
			Help:      "Objects created through the registry",
		},
		[]string{"type", "id"},
	)

	// ObjectFailures counts failed object lookups and constructions,
	// labeled by object family and failure reason.
	ObjectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "options",
			Name:      "object_failures_total",
			Help:      "Failed registry lookups and object constructions",
		},
		[]string{"type", "reason"},
	)

	// ConfigureOps counts configuration operations, labeled by operation
	// (configure, serialize, compare) and outcome.
	ConfigureOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "options",
			Name:      "configure_operations_total",
			Help:      "Configuration framework operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	// ConfigureDuration tracks the latency of configuration operations.
	ConfigureDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "options",
			Name:      "configure_duration_seconds",
			Help:      "Latency of configuration operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"operation"},
	)
)

// Outcome converts an error to the label value used on ConfigureOps.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
