// Package sqldb implements a durable kv.Provider on a SQL database through
// GORM. SQLite (pure Go, no cgo) and PostgreSQL are supported.
package sqldb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marmos91/draftkeep/pkg/kv"
)

// DatabaseType defines the supported database backends.
type DatabaseType string

const (
	DatabaseTypeSQLite   DatabaseType = "sqlite"
	DatabaseTypePostgres DatabaseType = "postgres"
)

// Config contains database configuration.
type Config struct {
	Type DatabaseType

	// Path is the SQLite database file.
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string

	// Quota caps the accounted size (keys plus values) in bytes. 0 is unbounded.
	Quota int64

	MaxOpenConns int
	MaxIdleConns int
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = DatabaseTypeSQLite
	}
	if c.Type == DatabaseTypePostgres {
		if c.MaxOpenConns == 0 {
			c.MaxOpenConns = 4
		}
		if c.MaxIdleConns == 0 {
			c.MaxIdleConns = 2
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case DatabaseTypePostgres:
		if c.DSN == "" {
			return fmt.Errorf("postgres dsn is required")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	if c.Quota < 0 {
		return fmt.Errorf("quota must not be negative")
	}
	return nil
}

// Entry is one stored key-value pair.
type Entry struct {
	Key       string `gorm:"primaryKey;size:512"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName returns the table name for Entry.
func (Entry) TableName() string {
	return "kv_entries"
}

// Store is a kv.Provider backed by GORM.
type Store struct {
	db     *gorm.DB
	config Config
	closed atomic.Bool

	mu   sync.Mutex
	used int64
}

// Open connects to the database, migrates the schema and computes usage.
func Open(ctx context.Context, config Config) (*Store, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	var dialector gorm.Dialector
	switch config.Type {
	case DatabaseTypeSQLite:
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn := config.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		dialector = sqlite.Open(dsn)
	case DatabaseTypePostgres:
		dialector = postgres.Open(config.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", classify(err))
	}

	if config.Type == DatabaseTypePostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}

	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to run database migration: %w", classify(err))
	}

	s := &Store{db: db, config: config}
	if err := s.computeUsage(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) computeUsage(ctx context.Context) error {
	var entries []Entry
	if err := s.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return fmt.Errorf("failed to compute usage: %w", classify(err))
	}

	var used int64
	for _, e := range entries {
		used += kv.EntrySize(e.Key, e.Value)
	}

	s.mu.Lock()
	s.used = used
	s.mu.Unlock()
	return nil
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

	var entry Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get %q: %w", key, kv.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, classify(err))
	}
	if entry.Value == nil {
		entry.Value = []byte{}
	}
	return entry.Value, nil
}

// sizeOf returns the accounted size of key inside tx, 0 when absent.
func sizeOf(tx *gorm.DB, key string) (int64, error) {
	var entry Entry
	err := tx.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return kv.EntrySize(entry.Key, entry.Value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var used int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := sizeOf(tx, key)
		if err != nil {
			return err
		}
		used = s.used - old + kv.EntrySize(key, value)
		if s.config.Quota > 0 && used > s.config.Quota {
			return fmt.Errorf("%d bytes, quota %d: %w", len(value), s.config.Quota, kv.ErrQuotaExceeded)
		}
		if value == nil {
			value = []byte{}
		}
		return tx.Save(&Entry{Key: key, Value: value, UpdatedAt: time.Now()}).Error
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
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := sizeOf(tx, key)
		if err != nil || old == 0 {
			return err
		}
		freed = old
		return tx.Where("key = ?", key).Delete(&Entry{}).Error
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

	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{}).Error
	if err != nil {
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
	err := s.db.WithContext(ctx).Model(&Entry{}).Order("key").Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("keys: %w", classify(err))
	}
	return keys, nil
}

// Quota implements kv.Sizer.
func (s *Store) Quota() int64 {
	return s.config.Quota
}

// Healthcheck pings the database.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("healthcheck failed: %w", classify(err))
	}
	return nil
}

// Close closes the connection pool. Further calls fail with kv.ErrUnavailable.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// classify maps driver failures onto kv sentinels.
//
// PostgreSQL errors are matched on SQLSTATE. SQLite reports result codes in
// the message text only, so those are matched by name.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kv.ErrQuotaExceeded) || errors.Is(err, kv.ErrPermission) ||
		errors.Is(err, kv.ErrUnavailable) || errors.Is(err, kv.ErrNotFound) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		// disk_full, out_of_memory, program_limit_exceeded
		case "53100", "53200", "54000":
			return fmt.Errorf("%w: %v", kv.ErrQuotaExceeded, err)
		// insufficient_privilege, read_only_sql_transaction
		case "42501", "25006":
			return fmt.Errorf("%w: %v", kv.ErrPermission, err)
		// connection failures
		case "08000", "08003", "08006":
			return fmt.Errorf("%w: %v", kv.ErrUnavailable, err)
		}
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "SQLITE_FULL"), strings.Contains(msg, "database or disk is full"):
		return fmt.Errorf("%w: %v", kv.ErrQuotaExceeded, err)
	case strings.Contains(msg, "SQLITE_READONLY"), strings.Contains(msg, "readonly database"),
		strings.Contains(msg, "SQLITE_PERM"):
		return fmt.Errorf("%w: %v", kv.ErrPermission, err)
	case strings.Contains(msg, "database is closed"):
		return fmt.Errorf("%w: %v", kv.ErrUnavailable, err)
	}
	return err
}

var (
	_ kv.Provider = (*Store)(nil)
	_ kv.Sizer    = (*Store)(nil)
)
