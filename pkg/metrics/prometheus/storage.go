// Package prometheus implements the metrics interfaces with Prometheus
// collectors. Importing it registers the constructors with pkg/metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/draftkeep/pkg/metrics"
)

func init() {
	metrics.RegisterStorageMetricsConstructor(func() metrics.StorageMetrics {
		return NewStorageMetrics()
	})
	metrics.RegisterAutosaveMetricsConstructor(func() metrics.AutosaveMetrics {
		return NewAutosaveMetrics()
	})
	metrics.RegisterDraftMetricsConstructor(func() metrics.DraftMetrics {
		return NewDraftMetrics()
	})
}

// storageMetrics is the Prometheus implementation of metrics.StorageMetrics.
type storageMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	probes     *prometheus.CounterVec
	retries    prometheus.Counter
	usedBytes  prometheus.Gauge
	quotaBytes prometheus.Gauge
}

// NewStorageMetrics creates storage collectors on the global registry.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewStorageMetrics() *storageMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &storageMetrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftkeep_storage_operations_total",
				Help: "Total SafeStore operations by operation and result",
			},
			[]string{"operation", "result"}, // result: ok, quota-exceeded, access-denied, corrupted, unknown
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "draftkeep_storage_operation_duration_seconds",
				Help:    "SafeStore operation latency, probe included",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"operation"},
		),
		probes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftkeep_storage_probes_total",
				Help: "Total health probes by resulting status",
			},
			[]string{"status"},
		),
		retries: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "draftkeep_storage_write_retries_total",
			Help: "Write attempts beyond the first",
		}),
		usedBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "draftkeep_storage_used_bytes",
			Help: "Estimated bytes in use (keys plus values)",
		}),
		quotaBytes: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "draftkeep_storage_quota_bytes",
			Help: "Configured store capacity",
		}),
	}
}

func (m *storageMetrics) ObserveOperation(op, kind string, duration time.Duration) {
	if m == nil {
		return
	}
	result := kind
	if result == "" {
		result = "ok"
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *storageMetrics) RecordProbe(status string) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(status).Inc()
}

func (m *storageMetrics) RecordRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *storageMetrics) RecordUsage(usedBytes, quotaBytes int64) {
	if m == nil {
		return
	}
	m.usedBytes.Set(float64(usedBytes))
	m.quotaBytes.Set(float64(quotaBytes))
}
