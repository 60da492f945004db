// Package badger implements a durable kv.Provider on BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"syscall"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/draftkeep/pkg/kv"
)

// All provider entries live under this prefix so the database can carry
// other bookkeeping later without colliding with user keys.
const prefixEntry = "kv:"

// Config configures a BadgerDB provider.
type Config struct {
	// Path is the database directory. Created if missing.
	Path string

	// Quota caps the accounted size (keys plus values) in bytes. 0 is unbounded.
	Quota int64

	// SyncWrites fsyncs every write. Slower, survives power loss.
	SyncWrites bool
}

// Store is a kv.Provider backed by BadgerDB.
//
// Set and Remove are serialized so quota accounting stays exact. Reads run
// concurrently.
type Store struct {
	db     *badgerdb.DB
	quota  int64
	closed atomic.Bool

	mu   sync.Mutex
	used int64
}

// Open opens (or creates) the database at cfg.Path and computes current usage.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("badger path is required")
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory: %w", err)
	}

	opts := badgerdb.DefaultOptions(cfg.Path).
		WithLogger(nil).
		WithSyncWrites(cfg.SyncWrites)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", classify(err))
	}

	s := &Store{db: db, quota: cfg.Quota}
	if err := s.computeUsage(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) computeUsage(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var used int64
	err := s.db.View(func(txn *badgerdb.Txn) error {
		prefix := []byte(prefixEntry)
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			used += int64(len(item.Key())-len(prefix)) + item.ValueSize()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to compute usage: %w", classify(err))
	}

	s.mu.Lock()
	s.used = used
	s.mu.Unlock()
	return nil
}

func entryKey(key string) []byte {
	return []byte(prefixEntry + key)
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return kv.ErrUnavailable
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(entryKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, fmt.Errorf("get %q: %w", key, kv.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, classify(err))
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// sizeOf returns the accounted size of key inside txn, 0 when absent.
func sizeOf(txn *badgerdb.Txn, key string) (int64, error) {
	item, err := txn.Get(entryKey(key))
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int64(len(key)) + item.ValueSize(), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var used int64
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		old, err := sizeOf(txn, key)
		if err != nil {
			return err
		}
		used = s.used - old + kv.EntrySize(key, value)
		if s.quota > 0 && used > s.quota {
			return fmt.Errorf("%d bytes, quota %d: %w", len(value), s.quota, kv.ErrQuotaExceeded)
		}
		return txn.Set(entryKey(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %q: %w", key, classify(err))
	}

	s.used = used
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var freed int64
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		old, err := sizeOf(txn, key)
		if err != nil || old == 0 {
			return err
		}
		freed = old
		return txn.Delete(entryKey(key))
	})
	if err != nil {
		return fmt.Errorf("remove %q: %w", key, classify(err))
	}

	s.used -= freed
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DropPrefix([]byte(prefixEntry)); err != nil {
		return fmt.Errorf("clear: %w", classify(err))
	}
	s.used = 0
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var keys []string
	err := s.db.View(func(txn *badgerdb.Txn) error {
		prefix := []byte(prefixEntry)
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("keys: %w", classify(err))
	}
	return keys, nil
}

// Quota implements kv.Sizer.
func (s *Store) Quota() int64 {
	return s.quota
}

// Healthcheck verifies the database can serve a read transaction.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := s.db.View(func(*badgerdb.Txn) error { return nil }); err != nil {
		return fmt.Errorf("healthcheck failed: %w", classify(err))
	}
	return nil
}

// Close closes the database. Further calls fail with kv.ErrUnavailable.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

// classify maps BadgerDB and OS failures onto kv sentinels. Errors that
// already wrap a kv sentinel pass through.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, kv.ErrQuotaExceeded), errors.Is(err, kv.ErrPermission),
		errors.Is(err, kv.ErrUnavailable), errors.Is(err, kv.ErrNotFound):
		return err
	case errors.Is(err, badgerdb.ErrTxnTooBig), errors.Is(err, syscall.ENOSPC):
		return fmt.Errorf("%w: %v", kv.ErrQuotaExceeded, err)
	case errors.Is(err, badgerdb.ErrReadOnlyTxn), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %v", kv.ErrPermission, err)
	case errors.Is(err, badgerdb.ErrDBClosed):
		return fmt.Errorf("%w: %v", kv.ErrUnavailable, err)
	default:
		return err
	}
}

var (
	_ kv.Provider = (*Store)(nil)
	_ kv.Sizer    = (*Store)(nil)
)
