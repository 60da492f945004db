// Package metrics defines the metrics interfaces the persistence core reports
// through, plus the global Prometheus registry.
//
// Every interface is optional: constructors return nil while metrics are
// disabled, and every call site tolerates a nil implementation, so a disabled
// build pays nothing. The Prometheus implementations live in
// pkg/metrics/prometheus and register themselves on import:
//
//	import _ "github.com/marmos91/draftkeep/pkg/metrics/prometheus"
//
//	metrics.InitRegistry()
//	store := storage.New(provider, storage.WithMetrics(metrics.NewStorageMetrics()))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registryMu sync.RWMutex
	registry   *prometheus.Registry
)

// InitRegistry creates the global registry with Go runtime and process
// collectors. Calling it again returns the existing registry.
func InitRegistry() *prometheus.Registry {
	registryMu.Lock()
	defer registryMu.Unlock()

	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return registry
}

// ResetRegistry drops the global registry, disabling metrics. Tests only.
func ResetRegistry() {
	registryMu.Lock()
	registry = nil
	registryMu.Unlock()
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry != nil
}

// GetRegistry returns the global registry, nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry
}
