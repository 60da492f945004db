package metrics

import "time"

// StorageMetrics observes SafeStore activity.
type StorageMetrics interface {
	// ObserveOperation records one completed operation (read, write, remove,
	// clear). kind is "" on success, otherwise the failure kind.
	ObserveOperation(op, kind string, duration time.Duration)

	// RecordProbe records the status a health probe returned.
	RecordProbe(status string)

	// RecordRetry records a write attempt beyond the first.
	RecordRetry()

	// RecordUsage records the estimated bytes in use and the quota.
	RecordUsage(usedBytes, quotaBytes int64)
}

var newStorageMetrics func() StorageMetrics

// RegisterStorageMetricsConstructor is called by pkg/metrics/prometheus on init.
func RegisterStorageMetricsConstructor(constructor func() StorageMetrics) {
	newStorageMetrics = constructor
}

// NewStorageMetrics returns the registered implementation, or nil when
// metrics are disabled or no implementation was linked in.
func NewStorageMetrics() StorageMetrics {
	if !IsEnabled() || newStorageMetrics == nil {
		return nil
	}
	return newStorageMetrics()
}

// ObserveOperation is a nil-safe wrapper around StorageMetrics.ObserveOperation.
func ObserveOperation(m StorageMetrics, op, kind string, duration time.Duration) {
	if m != nil {
		m.ObserveOperation(op, kind, duration)
	}
}

// RecordProbe is a nil-safe wrapper around StorageMetrics.RecordProbe.
func RecordProbe(m StorageMetrics, status string) {
	if m != nil {
		m.RecordProbe(status)
	}
}

// RecordRetry is a nil-safe wrapper around StorageMetrics.RecordRetry.
func RecordRetry(m StorageMetrics) {
	if m != nil {
		m.RecordRetry()
	}
}

// RecordUsage is a nil-safe wrapper around StorageMetrics.RecordUsage.
func RecordUsage(m StorageMetrics, usedBytes, quotaBytes int64) {
	if m != nil {
		m.RecordUsage(usedBytes, quotaBytes)
	}
}
