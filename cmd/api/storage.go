package main

import (
	"context"
	"fmt"

	"github.com/CoderRahul01/OrmeeHairs/internal/snapshot"
	"github.com/CoderRahul01/OrmeeHairs/pkg/config"
	"github.com/CoderRahul01/OrmeeHairs/pkg/db"
	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
	"github.com/CoderRahul01/OrmeeHairs/pkg/migrate"
	"github.com/CoderRahul01/OrmeeHairs/pkg/redis"
)

// storageBackend is the snapshot storage selected by ORMEE_STORAGE_BACKEND
// plus the clients opened for it. redis is also opened for the cron lock
// whenever it is configured.
type storageBackend struct {
	storage snapshot.Storage
	db      *db.Client
	redis   *redis.Client
}

func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*storageBackend, error) {
	backend := &storageBackend{}

	if cfg.Storage.Backend == config.StorageBackendRedis || cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		backend.redis = client
	}

	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		backend.storage = snapshot.NewMemoryStorage()
	case config.StorageBackendRedis:
		storage, err := snapshot.NewRedisStorage(backend.redis, cfg.Snapshot.RedisTTL)
		if err != nil {
			backend.close(logg)
			return nil, err
		}
		backend.storage = storage
	case config.StorageBackendPostgres, config.StorageBackendSQLite:
		client, err := db.New(ctx, cfg.Storage.Backend, cfg.DB, logg)
		if err != nil {
			backend.close(logg)
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		backend.db = client
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			backend.close(logg)
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		storage, err := snapshot.NewSQLStorage(client.DB())
		if err != nil {
			backend.close(logg)
			return nil, err
		}
		backend.storage = storage
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
	return backend, nil
}

func (b *storageBackend) close(logg *logger.Logger) {
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}
}
