// Package kv defines the key-value provider capability the persistence core
// is built on.
//
// A Provider is a flat string-keyed byte store in the spirit of a browser's
// localStorage: synchronous from the caller's point of view, capacity-limited,
// and possibly read-only. Every operation is fallible and reports failures
// through the sentinel errors below, wrapped with context:
//
//	if errors.Is(err, kv.ErrQuotaExceeded) { ... }
//
// Implementations live in sub-packages (memory, badger, sqldb). The kvtest
// package holds a conformance suite all of them run.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("kv: key not found")

	// ErrQuotaExceeded is returned when a write would exceed the provider's capacity.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")

	// ErrPermission is returned when the provider refuses a mutation
	// (read-only mode, restricted access).
	ErrPermission = errors.New("kv: permission denied")

	// ErrUnavailable is returned when the provider cannot be reached at all,
	// including after Close.
	ErrUnavailable = errors.New("kv: provider unavailable")

	// ErrCorrupted is returned when a stored value cannot be decoded.
	ErrCorrupted = errors.New("kv: value corrupted")
)

// Provider is a string-keyed byte store.
//
// Get returns ErrNotFound for absent keys. Remove of an absent key is not an
// error. Set replaces any previous value atomically: a failed Set leaves the
// previous value untouched.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error

	// Keys returns every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)

	Close() error
}

// Sizer is implemented by providers that know their capacity.
type Sizer interface {
	// Quota returns the capacity in bytes, or 0 when unbounded.
	Quota() int64
}

// Healthchecker is implemented by providers that can verify their backend
// without touching data.
type Healthchecker interface {
	Healthcheck(ctx context.Context) error
}

// EntrySize is the accounted size of one entry: key length plus value length.
// All providers charge quota with it.
func EntrySize(key string, value []byte) int64 {
	return int64(len(key) + len(value))
}
