package metrics

// DraftMetrics observes the draft registry.
type DraftMetrics interface {
	// RecordMutation records a persisted mutation (create, rename, pin,
	// update, delete) and whether the write succeeded.
	RecordMutation(op string, success bool)

	// SetCount records the collection size after a load or mutation.
	SetCount(total, pinned int)
}

var newDraftMetrics func() DraftMetrics

// RegisterDraftMetricsConstructor is called by pkg/metrics/prometheus on init.
func RegisterDraftMetricsConstructor(constructor func() DraftMetrics) {
	newDraftMetrics = constructor
}

// NewDraftMetrics returns the registered implementation, or nil.
func NewDraftMetrics() DraftMetrics {
	if !IsEnabled() || newDraftMetrics == nil {
		return nil
	}
	return newDraftMetrics()
}
