package prometheus

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/draftkeep/pkg/metrics"
)

// draftMetrics is the Prometheus implementation of metrics.DraftMetrics.
type draftMetrics struct {
	mutations *prometheus.CounterVec
	drafts    *prometheus.GaugeVec
}

// NewDraftMetrics creates draft registry collectors, nil when metrics are disabled.
func NewDraftMetrics() *draftMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &draftMetrics{
		mutations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftkeep_draft_mutations_total",
				Help: "Persisted draft mutations by operation and outcome",
			},
			[]string{"operation", "success"},
		),
		drafts: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "draftkeep_drafts",
				Help: "Drafts in the registry",
			},
			[]string{"pinned"},
		),
	}
}

func (m *draftMetrics) RecordMutation(op string, success bool) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, strconv.FormatBool(success)).Inc()
}

func (m *draftMetrics) SetCount(total, pinned int) {
	if m == nil {
		return
	}
	m.drafts.WithLabelValues("true").Set(float64(pinned))
	m.drafts.WithLabelValues("false").Set(float64(total - pinned))
}
