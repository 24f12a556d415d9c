// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration is dashboard request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "southwood_http_request_duration_seconds",
			Help:    "Dashboard HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// StoreOperationDuration is store latency in seconds.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "southwood_store_operation_duration_seconds",
			Help:    "Project store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation"},
	)

	// ProjectMutations counts whole-project replacements by kind.
	ProjectMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "southwood_project_mutations_total",
			Help: "Total number of project mutations",
		},
		[]string{"kind"},
	)

	// QueriesAnswered counts answered questions by report kind.
	QueriesAnswered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "southwood_queries_answered_total",
			Help: "Total number of questions answered",
		},
		[]string{"kind"},
	)

	// NotificationsSent counts chat deliveries by kind and outcome.
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "southwood_notifications_sent_total",
			Help: "Total number of chat notifications",
		},
		[]string{"kind", "status"},
	)
)

// RecordHTTPRequestDuration observes one dashboard request.
func RecordHTTPRequestDuration(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

// RecordStoreOperation observes one store call.
func RecordStoreOperation(operation string, d time.Duration) {
	StoreOperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func IncrementMutation(kind string) {
	ProjectMutations.WithLabelValues(kind).Inc()
}

func IncrementQuery(kind string) {
	QueriesAnswered.WithLabelValues(kind).Inc()
}

// IncrementNotification records a delivery attempt; status is sent, skipped or failed.
func IncrementNotification(kind, status string) {
	NotificationsSent.WithLabelValues(kind, status).Inc()
}
