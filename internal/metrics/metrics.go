// Package metrics defines the Prometheus instruments exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration measures request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// AllocationMutations counts allocation writes per operation and outcome.
	AllocationMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allocation_mutations_total",
			Help: "Total number of allocation mutations",
		},
		[]string{"operation", "outcome"},
	)

	// ConflictDetections counts detector runs, split by cache hits.
	ConflictDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conflict_detections_total",
			Help: "Total number of conflict detection runs",
		},
		[]string{"source"},
	)

	// CommitFailures counts persistence commits that failed after the local
	// mutation was applied.
	CommitFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commit_failures_total",
			Help: "Total number of persistence commit failures",
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementAllocationMutation counts one allocation write.
func IncrementAllocationMutation(operation, outcome string) {
	AllocationMutations.WithLabelValues(operation, outcome).Inc()
}

// IncrementConflictDetection counts one detector run. Source is "computed"
// or "cache".
func IncrementConflictDetection(source string) {
	ConflictDetections.WithLabelValues(source).Inc()
}

// IncrementCommitFailure counts one failed persistence commit.
func IncrementCommitFailure(operation string) {
	CommitFailures.WithLabelValues(operation).Inc()
}
