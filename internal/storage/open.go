package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/nutritrack/backend/config"
	"github.com/pageza/nutritrack/backend/internal/database"
)

// Backend is an opened Store together with the connections behind it.
type Backend struct {
	Store Store
	DB    *gorm.DB      // set for the postgres and sqlite backends
	Redis *redis.Client // set for the redis backend
}

// Open connects the backend selected by cfg.StorageBackend. SQL backends are
// migrated before use.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		return &Backend{Store: NewMemoryStore()}, nil

	case config.StorageRedis:
		client, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: NewRedisStore(client, cfg.RedisKeyPrefix), Redis: client}, nil

	case config.StoragePostgres, config.StorageSQLite:
		var (
			db  *gorm.DB
			err error
		)
		if cfg.StorageBackend == config.StoragePostgres {
			db, err = database.New(ctx, cfg, log)
		} else {
			db, err = database.NewSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db, log); err != nil {
			_ = database.Close(db)
			return nil, err
		}
		return &Backend{Store: NewGormStore(db), DB: db}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// Ping checks that the backing connection is alive.
func (b *Backend) Ping(ctx context.Context) error {
	switch {
	case b.DB != nil:
		return database.HealthCheck(ctx, b.DB)
	case b.Redis != nil:
		return b.Redis.Ping(ctx).Err()
	}
	return nil
}

// Close releases the backing connections.
func (b *Backend) Close() error {
	var errs []error
	if b.DB != nil {
		errs = append(errs, database.Close(b.DB))
	}
	if b.Redis != nil {
		errs = append(errs, b.Redis.Close())
	}
	return errors.Join(errs...)
}
