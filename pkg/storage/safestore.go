// Package storage is the persistence core's gateway to a kv.Provider.
//
// Every operation probes store health first, then performs the I/O and
// classifies any failure into a *StoreError with a Kind drawn from
// {quota-exceeded, access-denied, corrupted, unknown}. No storage failure is
// fatal: callers inspect the returned error and keep working in memory.
package storage

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/internal/telemetry"
	"github.com/marmos91/draftkeep/pkg/kv"
	"github.com/marmos91/draftkeep/pkg/metrics"
)

// DefaultMaxRetries is the number of extra write attempts for unclassified
// failures.
const DefaultMaxRetries = 1

// User-facing failure messages.
const (
	msgUnavailable      = "Storage is not available in this environment"
	msgReadDenied       = "Access to storage was denied"
	msgCorrupted        = "Storage contains invalid data"
	msgReadOnly         = "Storage is read-only (possibly in private mode)"
	msgQuotaPreemptive  = "Storage quota exceeded. Try clearing old drafts or browser cache."
	msgQuotaReactive    = "Storage quota exceeded. Clear some drafts or browser cache to continue saving."
	msgWriteDenied      = "Cannot write to storage (private browsing or restricted access)"
	msgRemoveFailed     = "Could not remove from storage"
	msgClearFailed      = "Could not clear storage"
	msgRetriesExhausted = "Failed to write to storage after retries"
)

// SafeStore wraps a provider with health probing and failure classification.
// Safe for concurrent use as far as the provider is.
type SafeStore struct {
	provider   kv.Provider
	probe      *Probe
	metrics    metrics.StorageMetrics
	maxRetries int
	quota      int64
}

// Option configures a SafeStore.
type Option func(*SafeStore)

// WithMetrics attaches storage metrics. nil disables them.
func WithMetrics(m metrics.StorageMetrics) Option {
	return func(s *SafeStore) { s.metrics = m }
}

// WithDefaultMaxRetries sets the retry count used when a Write call does not
// pass WithMaxRetries.
func WithDefaultMaxRetries(n int) Option {
	return func(s *SafeStore) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithQuota sets the capacity Estimate reports against when the provider
// does not implement kv.Sizer.
func WithQuota(bytes int64) Option {
	return func(s *SafeStore) { s.quota = bytes }
}

// New creates a SafeStore over provider. A nil provider is valid and makes
// every operation fail with access-denied, as in an environment with no store.
func New(provider kv.Provider, opts ...Option) *SafeStore {
	s := &SafeStore{
		provider:   provider,
		maxRetries: DefaultMaxRetries,
		quota:      DefaultQuota,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.probe = NewProbe(provider, s.metrics)
	return s
}

// Health runs a fresh probe.
func (s *SafeStore) Health(ctx context.Context) Health {
	return s.probe.Check(ctx)
}

// Read returns the value stored at key. found is false, with a nil error,
// when the key is absent.
func (s *SafeStore) Read(ctx context.Context, key string) (value string, found bool, err error) {
	ctx, span := telemetry.StartStorageSpan(ctx, string(OpRead), key)
	defer span.End()
	start := time.Now()
	defer func() { s.finish(ctx, OpRead, key, start, err) }()

	health := s.probe.Check(ctx)
	if !health.Available() {
		return "", false, NewError(KindAccessDenied, OpRead, key, msgUnavailable, health.Cause)
	}

	raw, getErr := s.provider.Get(ctx, key)
	switch {
	case getErr == nil:
	case errors.Is(getErr, kv.ErrNotFound):
		return "", false, nil
	case errors.Is(getErr, kv.ErrPermission), errors.Is(getErr, kv.ErrUnavailable):
		return "", false, NewError(KindAccessDenied, OpRead, key, msgReadDenied, getErr)
	case errors.Is(getErr, kv.ErrCorrupted):
		return "", false, NewError(KindCorrupted, OpRead, key, msgCorrupted, getErr)
	default:
		return "", false, NewError(KindUnknown, OpRead, key, getErr.Error(), getErr)
	}

	if !utf8.Valid(raw) {
		return "", false, NewError(KindCorrupted, OpRead, key, msgCorrupted, nil)
	}
	return string(raw), true, nil
}

type writeOptions struct {
	maxRetries      int
	onQuotaExceeded func()
}

// WriteOption configures a single Write call.
type WriteOption func(*writeOptions)

// WithMaxRetries sets how many extra attempts an unclassified failure gets.
// Retries are immediate, without backoff.
func WithMaxRetries(n int) WriteOption {
	return func(o *writeOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithQuotaCallback registers fn to run when the write fails for quota,
// whether detected by the probe or reported by the store.
func WithQuotaCallback(fn func()) WriteOption {
	return func(o *writeOptions) { o.onQuotaExceeded = fn }
}

// Write stores value at key.
//
// Each attempt probes first. An unavailable or read-only store fails without
// writing. A probe that already reports quota exhaustion fails pre-emptively.
// Quota and permission rejections from the store itself are returned at once,
// other failures are retried. The quota callback runs at most once per call.
// A failed write leaves the previous value untouched.
func (s *SafeStore) Write(ctx context.Context, key, value string, opts ...WriteOption) (err error) {
	o := writeOptions{maxRetries: s.maxRetries}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, span := telemetry.StartStorageSpan(ctx, string(OpWrite), key, telemetry.Bytes(len(value)))
	defer span.End()
	start := time.Now()
	defer func() { s.finish(ctx, OpWrite, key, start, err) }()

	quotaExceeded := func(message string, cause error) error {
		if o.onQuotaExceeded != nil {
			o.onQuotaExceeded()
		}
		return NewError(KindQuotaExceeded, OpWrite, key, message, cause)
	}

	var lastErr error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordRetry(s.metrics)
			telemetry.AddEvent(ctx, "retry", telemetry.Attempt(attempt))
			logger.DebugCtx(ctx, "Retrying storage write",
				logger.KeyKey, key, logger.KeyAttempt, attempt, logger.KeyMaxRetries, o.maxRetries,
				logger.Err(lastErr))
		}

		health := s.probe.Check(ctx)
		switch health.Status {
		case StatusUnavailable:
			return NewError(KindAccessDenied, OpWrite, key, msgUnavailable, health.Cause)
		case StatusAccessDenied:
			return NewError(KindAccessDenied, OpWrite, key, msgReadOnly, health.Cause)
		case StatusQuotaExceeded:
			return quotaExceeded(msgQuotaPreemptive, health.Cause)
		}

		setErr := s.provider.Set(ctx, key, []byte(value))
		switch {
		case setErr == nil:
			return nil
		case errors.Is(setErr, kv.ErrQuotaExceeded):
			return quotaExceeded(msgQuotaReactive, setErr)
		case errors.Is(setErr, kv.ErrPermission):
			return NewError(KindAccessDenied, OpWrite, key, msgWriteDenied, setErr)
		}

		lastErr = setErr
		if ctx.Err() != nil {
			break
		}
	}

	if lastErr == nil {
		return NewError(KindUnknown, OpWrite, key, msgRetriesExhausted, nil)
	}
	return NewError(KindUnknown, OpWrite, key, lastErr.Error(), lastErr)
}

// Remove deletes key. Removing an absent key succeeds.
func (s *SafeStore) Remove(ctx context.Context, key string) (err error) {
	ctx, span := telemetry.StartStorageSpan(ctx, string(OpRemove), key)
	defer span.End()
	start := time.Now()
	defer func() { s.finish(ctx, OpRemove, key, start, err) }()

	health := s.probe.Check(ctx)
	if !health.Available() {
		return NewError(KindAccessDenied, OpRemove, key, msgUnavailable, health.Cause)
	}
	if rmErr := s.provider.Remove(ctx, key); rmErr != nil {
		return NewError(KindUnknown, OpRemove, key, msgRemoveFailed, rmErr)
	}
	return nil
}

// Clear deletes every key.
func (s *SafeStore) Clear(ctx context.Context) (err error) {
	ctx, span := telemetry.StartStorageSpan(ctx, string(OpClear), "")
	defer span.End()
	start := time.Now()
	defer func() { s.finish(ctx, OpClear, "", start, err) }()

	health := s.probe.Check(ctx)
	if !health.Available() {
		return NewError(KindAccessDenied, OpClear, "", msgUnavailable, health.Cause)
	}
	if clrErr := s.provider.Clear(ctx); clrErr != nil {
		return NewError(KindUnknown, OpClear, "", msgClearFailed, clrErr)
	}
	return nil
}

// finish records metrics, span status and a log line for one operation.
func (s *SafeStore) finish(ctx context.Context, op Op, key string, start time.Time, err error) {
	kind := ""
	if err != nil {
		kind = KindOf(err).String()
	}
	metrics.ObserveOperation(s.metrics, string(op), kind, time.Since(start))

	if err == nil {
		return
	}
	telemetry.SetAttributes(ctx, telemetry.ErrorKind(kind))
	telemetry.RecordError(ctx, err)
	logger.WarnCtx(ctx, "Storage operation failed",
		logger.KeyOperation, string(op),
		logger.KeyKey, key,
		logger.KeyErrorKind, kind,
		logger.Err(err))
}
