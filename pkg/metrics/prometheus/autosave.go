package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/draftkeep/pkg/metrics"
)

// autosaveMetrics is the Prometheus implementation of metrics.AutosaveMetrics.
type autosaveMetrics struct {
	saves      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	superseded prometheus.Counter
	dirty      prometheus.Gauge
}

// NewAutosaveMetrics creates autosave collectors, nil when metrics are disabled.
func NewAutosaveMetrics() *autosaveMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &autosaveMetrics{
		saves: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftkeep_autosave_saves_total",
				Help: "Total saves by trigger and outcome",
			},
			[]string{"trigger", "success"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "draftkeep_autosave_save_duration_seconds",
				Help:    "Time spent writing content on save",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"trigger"},
		),
		superseded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "draftkeep_autosave_superseded_total",
			Help: "Pending saves discarded because a newer edit arrived within the quiet period",
		}),
		dirty: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "draftkeep_autosave_dirty",
			Help: "1 while unsaved changes exist",
		}),
	}
}

func (m *autosaveMetrics) ObserveSave(trigger string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(trigger, strconv.FormatBool(success)).Inc()
	m.duration.WithLabelValues(trigger).Observe(duration.Seconds())
}

func (m *autosaveMetrics) RecordSuperseded() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}

func (m *autosaveMetrics) SetDirty(dirty bool) {
	if m == nil {
		return
	}
	if dirty {
		m.dirty.Set(1)
	} else {
		m.dirty.Set(0)
	}
}
