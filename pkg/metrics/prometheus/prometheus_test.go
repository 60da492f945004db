package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/pkg/metrics"
)

func withRegistry(t *testing.T) {
	t.Helper()
	metrics.ResetRegistry()
	metrics.InitRegistry()
	t.Cleanup(metrics.ResetRegistry)
}

func TestConstructorsDisabled(t *testing.T) {
	metrics.ResetRegistry()

	assert.Nil(t, NewStorageMetrics())
	assert.Nil(t, NewAutosaveMetrics())
	assert.Nil(t, NewDraftMetrics())
	assert.Nil(t, metrics.NewStorageMetrics())

	// nil receivers are safe
	var m *storageMetrics
	m.ObserveOperation("write", "", time.Millisecond)
	m.RecordRetry()
}

func TestStorageMetrics(t *testing.T) {
	withRegistry(t)

	m := NewStorageMetrics()
	require.NotNil(t, m)

	m.ObserveOperation("write", "", time.Millisecond)
	m.ObserveOperation("write", "quota-exceeded", time.Millisecond)
	m.ObserveOperation("write", "quota-exceeded", time.Millisecond)
	m.RecordProbe("healthy")
	m.RecordRetry()
	m.RecordUsage(1024, 5*1024*1024)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("write", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("write", "quota-exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.probes.WithLabelValues("healthy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retries))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.usedBytes))
}

func TestRegisteredConstructor(t *testing.T) {
	withRegistry(t)

	assert.NotNil(t, metrics.NewStorageMetrics())
	assert.NotNil(t, metrics.NewAutosaveMetrics())
	assert.NotNil(t, metrics.NewDraftMetrics())
}

func TestAutosaveMetrics(t *testing.T) {
	withRegistry(t)

	m := NewAutosaveMetrics()
	require.NotNil(t, m)

	m.ObserveSave("debounce", true, time.Millisecond)
	m.ObserveSave("manual", false, time.Millisecond)
	m.RecordSuperseded()
	m.RecordSuperseded()
	m.SetDirty(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.saves.WithLabelValues("debounce", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saves.WithLabelValues("manual", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.superseded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dirty))

	m.SetDirty(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dirty))
}

func TestDraftMetrics(t *testing.T) {
	withRegistry(t)

	m := NewDraftMetrics()
	require.NotNil(t, m)

	m.RecordMutation("create", true)
	m.SetCount(5, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("create", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.drafts.WithLabelValues("true")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.drafts.WithLabelValues("false")))
}
