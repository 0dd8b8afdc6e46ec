package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/folioworks/folio/config"
	"github.com/folioworks/folio/internal/adapters/boltkv"
	"github.com/folioworks/folio/internal/adapters/memorykv"
	"github.com/folioworks/folio/internal/adapters/postgres"
	redisadapter "github.com/folioworks/folio/internal/adapters/redis"
	"github.com/folioworks/folio/internal/ports"
)

// StorageDeps groups dependencies for the durable token record store.
type StorageDeps struct {
	Storage config.StorageConfig
	Logger  *slog.Logger
}

// Storage is the opened record store together with whatever must be closed
// on shutdown.
type Storage struct {
	KV      ports.KVStore
	closers []io.Closer
}

// Close releases every connection the store holds.
func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenStorage opens the record store selected by the storage driver.
func OpenStorage(ctx context.Context, deps StorageDeps) (*Storage, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Storage

	switch cfg.Driver {
	case config.StorageMemory:
		logger.Warn("token records kept in memory; sessions are lost on restart")
		return &Storage{KV: memorykv.New()}, nil

	case config.StorageBolt:
		store, err := boltkv.Open(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		logger.Info("token records stored in bolt file", "path", cfg.BoltPath)
		return &Storage{KV: store, closers: []io.Closer{store}}, nil

	case config.StorageRedis:
		client, err := ConnectRedis(DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			return nil, err
		}
		kv := redisadapter.NewKVStore(client, redisadapter.KVStoreOptions{TTL: cfg.RecordTTL})
		return &Storage{KV: kv, closers: []io.Closer{client}}, nil

	case config.StoragePostgres:
		db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrationsOnStart {
			if migErr := RunMigrations(ctx, db, logger); migErr != nil {
				return nil, errors.Join(migErr, db.Close())
			}
		}
		return &Storage{KV: postgres.NewKVStore(db), closers: []io.Closer{db}}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
