// Package memory implements an in-memory kv.Provider.
//
// Besides serving as the default runtime store, it can simulate the failure
// modes of a real browser store on demand: a byte quota, a read-only mode and
// arbitrary injected faults.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/marmos91/draftkeep/pkg/kv"
)

// Op identifies a provider operation for fault injection.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
	OpKeys   Op = "keys"
)

// Fault decides whether an operation fails. A nil return lets it proceed.
type Fault func(op Op, key string) error

// FailTimes returns a Fault that fails the first n calls of op with err.
// n <= 0 fails every call.
func FailTimes(op Op, err error, n int) Fault {
	var mu sync.Mutex
	remaining := n
	return func(got Op, _ string) error {
		if got != op {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		if n <= 0 {
			return err
		}
		if remaining == 0 {
			return nil
		}
		remaining--
		return err
	}
}

// Option configures a Store.
type Option func(*Store)

// WithQuota caps the total accounted size (keys plus values) in bytes.
func WithQuota(bytes int64) Option {
	return func(s *Store) { s.quota = bytes }
}

// WithReadOnly makes every mutation fail with kv.ErrPermission.
func WithReadOnly() Option {
	return func(s *Store) { s.readOnly = true }
}

// Store is a map-backed provider. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	used     int64
	quota    int64
	readOnly bool
	fault    Fault
	closed   bool
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{data: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetReadOnly toggles read-only mode.
func (s *Store) SetReadOnly(readOnly bool) {
	s.mu.Lock()
	s.readOnly = readOnly
	s.mu.Unlock()
}

// SetQuota changes the byte quota. 0 removes the limit.
func (s *Store) SetQuota(bytes int64) {
	s.mu.Lock()
	s.quota = bytes
	s.mu.Unlock()
}

// SetFault installs f, replacing any previous fault. nil clears it.
func (s *Store) SetFault(f Fault) {
	s.mu.Lock()
	s.fault = f
	s.mu.Unlock()
}

// Quota implements kv.Sizer.
func (s *Store) Quota() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quota
}

// Used returns the accounted size of everything stored.
func (s *Store) Used() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

func (s *Store) check(ctx context.Context, op Op, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return kv.ErrUnavailable
	}
	if s.fault != nil {
		if err := s.fault(op, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx, OpGet, key); err != nil {
		return nil, err
	}
	value, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", key, kv.ErrNotFound)
	}
	return slices.Clone(value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx, OpSet, key); err != nil {
		return err
	}
	if s.readOnly {
		return fmt.Errorf("set %q: %w", key, kv.ErrPermission)
	}

	used := s.used + kv.EntrySize(key, value)
	if old, ok := s.data[key]; ok {
		used -= kv.EntrySize(key, old)
	}
	if s.quota > 0 && used > s.quota {
		return fmt.Errorf("set %q (%d bytes, quota %d): %w", key, len(value), s.quota, kv.ErrQuotaExceeded)
	}

	s.data[key] = slices.Clone(value)
	s.used = used
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx, OpRemove, key); err != nil {
		return err
	}
	if s.readOnly {
		return fmt.Errorf("remove %q: %w", key, kv.ErrPermission)
	}
	if old, ok := s.data[key]; ok {
		s.used -= kv.EntrySize(key, old)
		delete(s.data, key)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(ctx, OpClear, ""); err != nil {
		return err
	}
	if s.readOnly {
		return fmt.Errorf("clear: %w", kv.ErrPermission)
	}
	clear(s.data)
	s.used = 0
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(ctx, OpKeys, ""); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Close marks the store unavailable. Data is discarded.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	s.used = 0
	return nil
}

var (
	_ kv.Provider = (*Store)(nil)
	_ kv.Sizer    = (*Store)(nil)
)
