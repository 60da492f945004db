package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used across spans.
const (
	AttrStoreType   = "store.type"
	AttrStoreKey    = "store.key"
	AttrStoreHealth = "store.health"
	AttrErrorKind   = "store.error_kind"
	AttrAttempt     = "store.attempt"
	AttrBytes       = "store.bytes"

	AttrDraftID    = "draft.id"
	AttrDraftCount = "draft.count"

	AttrAutosaveTrigger    = "autosave.trigger"
	AttrAutosaveGeneration = "autosave.generation"
)

func StoreType(t string) attribute.KeyValue    { return attribute.String(AttrStoreType, t) }
func StoreKey(key string) attribute.KeyValue   { return attribute.String(AttrStoreKey, key) }
func StoreHealth(s string) attribute.KeyValue  { return attribute.String(AttrStoreHealth, s) }
func ErrorKind(kind string) attribute.KeyValue { return attribute.String(AttrErrorKind, kind) }
func Attempt(n int) attribute.KeyValue         { return attribute.Int(AttrAttempt, n) }
func Bytes(n int) attribute.KeyValue           { return attribute.Int(AttrBytes, n) }
func DraftID(id string) attribute.KeyValue     { return attribute.String(AttrDraftID, id) }
func DraftCount(n int) attribute.KeyValue      { return attribute.Int(AttrDraftCount, n) }
func Trigger(trigger string) attribute.KeyValue {
	return attribute.String(AttrAutosaveTrigger, trigger)
}
func Generation(gen uint64) attribute.KeyValue {
	return attribute.Int64(AttrAutosaveGeneration, int64(gen))
}

// StartStorageSpan starts a span named "storage.<operation>" tagged with key.
func StartStorageSpan(ctx context.Context, operation, key string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(attrs)+1)
	if key != "" {
		all = append(all, StoreKey(key))
	}
	all = append(all, attrs...)
	return StartSpan(ctx, "storage."+operation, trace.WithAttributes(all...))
}

// StartDraftSpan starts a span named "drafts.<operation>".
func StartDraftSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "drafts."+operation, trace.WithAttributes(attrs...))
}

// StartAutosaveSpan starts a span named "autosave.save" for one save attempt.
func StartAutosaveSpan(ctx context.Context, trigger string, generation uint64) (context.Context, trace.Span) {
	return StartSpan(ctx, "autosave.save", trace.WithAttributes(Trigger(trigger), Generation(generation)))
}
