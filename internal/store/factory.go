package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"maturity.app/assessor/core/config"
	"maturity.app/assessor/core/db"
)

// Open builds the backend named by cfg.Store.Backend. The caller owns the
// returned store and must Close it.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (SnapshotStore, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		database, err := db.Open(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return NewPostgresStore(database, opts...), nil

	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.Store.SQLitePath, opts...)

	case config.BackendRedis:
		redisOpts, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return NewRedisStore(client, cfg.Store.RedisKeyPrefix, opts...), nil

	case config.BackendFile:
		return NewFileStore(cfg.Store.SnapshotDir, opts...)

	case config.BackendMemory:
		return NewMemoryStore(opts...), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
