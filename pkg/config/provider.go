package config

import (
	"context"
	"fmt"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/pkg/kv"
	"github.com/marmos91/draftkeep/pkg/kv/badger"
	"github.com/marmos91/draftkeep/pkg/kv/memory"
	"github.com/marmos91/draftkeep/pkg/kv/sqldb"
	"github.com/marmos91/draftkeep/pkg/metrics"
	"github.com/marmos91/draftkeep/pkg/storage"
)

// OpenProvider opens the configured key-value backend. The "none" type
// returns a nil provider: every storage operation then reports storage as
// unavailable.
func OpenProvider(ctx context.Context, cfg StorageConfig) (kv.Provider, error) {
	quota := cfg.Quota.Int64()

	switch cfg.Type {
	case StorageMemory:
		return memory.New(memory.WithQuota(quota)), nil
	case StorageBadger:
		store, err := badger.Open(ctx, badger.Config{
			Path:       cfg.Path,
			Quota:      quota,
			SyncWrites: cfg.SyncWrites,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageSQLite:
		return openSQL(ctx, sqldb.Config{Type: sqldb.DatabaseTypeSQLite, Path: cfg.Path, Quota: quota})
	case StoragePostgres:
		return openSQL(ctx, sqldb.Config{Type: sqldb.DatabaseTypePostgres, DSN: cfg.DSN, Quota: quota})
	case StorageNone:
		logger.WarnCtx(ctx, "Running without persistent storage")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}

func openSQL(ctx context.Context, cfg sqldb.Config) (kv.Provider, error) {
	store, err := sqldb.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// OpenStore opens the configured backend and wraps it in a SafeStore with
// the configured quota, retry count and metrics. The returned close function
// releases the backend and is safe to call with a nil provider.
func OpenStore(ctx context.Context, cfg *Config) (*storage.SafeStore, func() error, error) {
	provider, err := OpenProvider(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Type, err)
	}

	logger.DebugCtx(ctx, "Storage opened",
		logger.KeyStoreType, cfg.Storage.Type,
		logger.KeyPath, cfg.Storage.Path,
		logger.KeyQuota, cfg.Storage.Quota.String())

	store := storage.New(provider,
		storage.WithQuota(cfg.Storage.Quota.Int64()),
		storage.WithDefaultMaxRetries(cfg.Autosave.MaxRetries),
		storage.WithMetrics(metrics.NewStorageMetrics()),
	)

	closeFn := func() error {
		if provider == nil {
			return nil
		}
		return provider.Close()
	}
	return store, closeFn, nil
}
