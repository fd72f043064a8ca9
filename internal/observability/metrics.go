// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the guard service.
type Metrics struct {
	// Admission metrics
	TransfersAllowed   prometheus.Counter
	TransfersRejected  *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram

	// Admin metrics
	AdminOps       *prometheus.CounterVec
	AdminOpErrors  *prometheus.CounterVec
	BlacklistSize  prometheus.Gauge
	ExclusionSize  prometheus.Gauge
	BotFlagSetSize prometheus.Gauge

	// Notification metrics
	NotificationsEmitted *prometheus.CounterVec
	WSClients            prometheus.Gauge

	// Persistence metrics
	SnapshotSaves      prometheus.Counter
	SnapshotSaveErrors prometheus.Counter
	AuditFlushes       prometheus.Counter
	AuditFlushErrors   prometheus.Counter
	AuditBufferSize    prometheus.Gauge

	// Health metrics
	UptimeSeconds prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tokenguard"
	}

	return &Metrics{
		// Admission metrics
		TransfersAllowed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "transfers_allowed_total",
			Help:      "Total number of transfers admitted",
		}),
		TransfersRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "transfers_rejected_total",
			Help:      "Total number of transfers rejected by reason",
		}, []string{"reason"}),
		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "admission",
			Name:      "evaluation_duration_seconds",
			Help:      "Transfer evaluation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Admin metrics
		AdminOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "operations_total",
			Help:      "Total number of successful admin operations by name",
		}, []string{"operation"}),
		AdminOpErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "operation_errors_total",
			Help:      "Total number of rejected admin operations by name",
		}, []string{"operation"}),
		BlacklistSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "blacklist_size",
			Help:      "Current number of blocklisted addresses",
		}),
		ExclusionSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "exclusion_size",
			Help:      "Current number of limit-excluded addresses",
		}),
		BotFlagSetSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "bot_flag_set_size",
			Help:      "Current number of bot-flagged addresses",
		}),

		// Notification metrics
		NotificationsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "notifications_emitted_total",
			Help:      "Total number of guard notifications emitted by kind",
		}, []string{"kind"}),
		WSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "ws_clients",
			Help:      "Number of connected websocket subscribers",
		}),

		// Persistence metrics
		SnapshotSaves: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "snapshot_saves_total",
			Help:      "Total number of state snapshots saved",
		}),
		SnapshotSaveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "snapshot_save_errors_total",
			Help:      "Total number of failed state snapshot saves",
		}),
		AuditFlushes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "audit_flushes_total",
			Help:      "Total number of audit buffer flushes",
		}),
		AuditFlushErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "audit_flush_errors_total",
			Help:      "Total number of failed audit buffer flushes",
		}),
		AuditBufferSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "audit_buffer_size",
			Help:      "Current number of buffered audit records",
		}),

		// Health metrics
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
