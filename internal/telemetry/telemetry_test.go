package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "draftkeep", cfg.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())
	assert.NotNil(t, Tracer())
}

func TestSpansWithoutInit(t *testing.T) {
	ctx := context.Background()

	spanCtx, span := StartStorageSpan(ctx, "write", "markdown-content", Attempt(1))
	require.NotNil(t, span)

	require.NotPanics(t, func() {
		RecordError(spanCtx, errors.New("boom"))
		RecordError(spanCtx, nil)
		AddEvent(spanCtx, "retry", Attempt(2))
		SetAttributes(spanCtx, ErrorKind("unknown"))
	})
	span.End()

	// No-op spans carry no ids.
	assert.Empty(t, TraceID(spanCtx))
	assert.Empty(t, SpanID(spanCtx))

	_, draftSpan := StartDraftSpan(ctx, "create", DraftID("1700000000000"))
	draftSpan.End()

	_, autosaveSpan := StartAutosaveSpan(ctx, "debounce", 3)
	autosaveSpan.End()
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name string
		key  string
		got  string
	}{
		{"store type", AttrStoreType, string(StoreType("badger").Key)},
		{"store key", AttrStoreKey, string(StoreKey("k").Key)},
		{"health", AttrStoreHealth, string(StoreHealth("healthy").Key)},
		{"error kind", AttrErrorKind, string(ErrorKind("corrupted").Key)},
		{"draft id", AttrDraftID, string(DraftID("1").Key)},
		{"draft count", AttrDraftCount, string(DraftCount(2).Key)},
		{"trigger", AttrAutosaveTrigger, string(Trigger("manual").Key)},
		{"generation", AttrAutosaveGeneration, string(Generation(7).Key)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.got)
		})
	}

	assert.Equal(t, int64(4), Bytes(4).Value.AsInt64())
	assert.Equal(t, int64(7), Generation(7).Value.AsInt64())
}

func TestInitProfilingDisabled(t *testing.T) {
	shutdown, err := InitProfiling(ProfilingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown())
	assert.False(t, IsProfilingEnabled())
}

func TestParseProfileType(t *testing.T) {
	for _, name := range DefaultProfileTypes {
		_, err := parseProfileType(name)
		assert.NoError(t, err, name)
	}

	_, err := parseProfileType("heap")
	assert.Error(t, err)
}
