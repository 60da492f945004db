package metrics

import "time"

// AutosaveMetrics observes the change tracker.
type AutosaveMetrics interface {
	// ObserveSave records a finished save. trigger is "debounce" or "manual".
	ObserveSave(trigger string, success bool, duration time.Duration)

	// RecordSuperseded records a pending save discarded by a newer edit.
	RecordSuperseded()

	// SetDirty tracks whether unsaved changes exist.
	SetDirty(dirty bool)
}

var newAutosaveMetrics func() AutosaveMetrics

// RegisterAutosaveMetricsConstructor is called by pkg/metrics/prometheus on init.
func RegisterAutosaveMetricsConstructor(constructor func() AutosaveMetrics) {
	newAutosaveMetrics = constructor
}

// NewAutosaveMetrics returns the registered implementation, or nil.
func NewAutosaveMetrics() AutosaveMetrics {
	if !IsEnabled() || newAutosaveMetrics == nil {
		return nil
	}
	return newAutosaveMetrics()
}
