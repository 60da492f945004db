package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/pkg/kv"
	"github.com/marmos91/draftkeep/pkg/metrics"
)

// Status is the outcome of a health probe.
type Status int

const (
	// StatusUnavailable means there is no store at all. Zero value.
	StatusUnavailable Status = iota

	// StatusHealthy means the sentinel round trip succeeded.
	StatusHealthy

	// StatusQuotaExceeded means the store rejected the sentinel for capacity.
	StatusQuotaExceeded

	// StatusAccessDenied means the store rejected the sentinel as a
	// permission violation (read-only, private mode).
	StatusAccessDenied

	// StatusIndeterminate means the store is present but the sentinel round
	// trip failed for an unclassified reason.
	StatusIndeterminate
)

func (s Status) String() string {
	switch s {
	case StatusUnavailable:
		return "unavailable"
	case StatusHealthy:
		return "healthy"
	case StatusQuotaExceeded:
		return "quota-exceeded"
	case StatusAccessDenied:
		return "access-denied"
	case StatusIndeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Health is one probe result. It is never cached: the condition it describes
// can change between calls.
type Health struct {
	Status Status

	// Cause is the error that produced a non-healthy status, if any.
	Cause error
}

// Available reports whether a store exists. When false the other predicates
// carry no meaning.
func (h Health) Available() bool { return h.Status != StatusUnavailable }

// ReadOnly reports a permission-class rejection.
func (h Health) ReadOnly() bool { return h.Status == StatusAccessDenied }

// QuotaExceeded reports a capacity-class rejection.
func (h Health) QuotaExceeded() bool { return h.Status == StatusQuotaExceeded }

// CanWrite reports a successful sentinel round trip.
func (h Health) CanWrite() bool { return h.Status == StatusHealthy }

// HealthReport is the serializable form of Health.
type HealthReport struct {
	Status        string `json:"status" yaml:"status"`
	Available     bool   `json:"available" yaml:"available"`
	ReadOnly      bool   `json:"readonly" yaml:"readonly"`
	QuotaExceeded bool   `json:"quota_exceeded" yaml:"quota_exceeded"`
	CanWrite      bool   `json:"can_write" yaml:"can_write"`
	Cause         string `json:"cause,omitempty" yaml:"cause,omitempty"`
}

// Report flattens h for output.
func (h Health) Report() HealthReport {
	r := HealthReport{
		Status:        h.Status.String(),
		Available:     h.Available(),
		ReadOnly:      h.ReadOnly(),
		QuotaExceeded: h.QuotaExceeded(),
		CanWrite:      h.CanWrite(),
	}
	if h.Cause != nil {
		r.Cause = h.Cause.Error()
	}
	return r
}

// Probe determines whether a provider is reachable, writable, read-only or
// quota-exhausted.
type Probe struct {
	provider kv.Provider
	metrics  metrics.StorageMetrics
}

// NewProbe creates a probe over provider. A nil provider always reports
// StatusUnavailable. m may be nil.
func NewProbe(provider kv.Provider, m metrics.StorageMetrics) *Probe {
	return &Probe{provider: provider, metrics: m}
}

// Check writes and removes a sentinel key and classifies the outcome.
func (p *Probe) Check(ctx context.Context) Health {
	h := p.check(ctx)
	metrics.RecordProbe(p.metrics, h.Status.String())
	if h.Cause != nil {
		logger.DebugCtx(ctx, "Storage probe", logger.KeyHealth, h.Status.String(), logger.Err(h.Cause))
	} else {
		logger.DebugCtx(ctx, "Storage probe", logger.KeyHealth, h.Status.String())
	}
	return h
}

func (p *Probe) check(ctx context.Context) Health {
	if p == nil || p.provider == nil {
		return Health{Status: StatusUnavailable}
	}

	if hc, ok := p.provider.(kv.Healthchecker); ok {
		if err := hc.Healthcheck(ctx); err != nil {
			return classifyProbe(err, StatusUnavailable)
		}
	}

	err := p.provider.Set(ctx, sentinelKey, []byte(sentinelValue))
	// The remove runs even after a failed set, which may have stored the
	// sentinel anyway.
	rmErr := p.provider.Remove(ctx, sentinelKey)
	if err == nil && rmErr != nil {
		logger.DebugCtx(ctx, "Storage probe sentinel left behind",
			logger.KeyKey, sentinelKey, logger.Err(rmErr))
		err = rmErr
	}
	if err == nil {
		return Health{Status: StatusHealthy}
	}
	return classifyProbe(err, StatusIndeterminate)
}

// classifyProbe maps a probe failure to a status, using fallback for errors
// that match no kv sentinel.
func classifyProbe(err error, fallback Status) Health {
	switch {
	case errors.Is(err, kv.ErrQuotaExceeded):
		return Health{Status: StatusQuotaExceeded, Cause: err}
	case errors.Is(err, kv.ErrPermission):
		return Health{Status: StatusAccessDenied, Cause: err}
	case errors.Is(err, kv.ErrUnavailable):
		return Health{Status: StatusUnavailable, Cause: err}
	default:
		return Health{Status: fallback, Cause: err}
	}
}
