package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/comitanigiacomo/salah-sync-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/salah-sync-engine/internal/config"
	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
)

// Backend bundles the configured store with the redis client, when one is
// configured, so callers can reuse it for rate limiting and health checks.
type Backend struct {
	Store domain.KeyValueStore
	Redis *redis.Client
}

// Open builds the store selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Backend, error) {
	b := &Backend{}

	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			if cfg.Storage.Backend == config.BackendRedis {
				return nil, err
			}
			logger.Warn("redis unavailable, continuing without it", "err", err)
		} else {
			b.Redis = rdb
		}
	}

	var store domain.KeyValueStore

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		store = NewMemoryStore()

	case config.BackendRedis:
		store = NewRedisStore(b.Redis, "salah")

	case config.BackendPostgres:
		db, err := sqlx.Connect("pgx", cfg.Database.DSN())
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		store, err = migrated(ctx, db)
		if err != nil {
			b.Close()
			return nil, err
		}

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0700); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		db, err := sqlx.Connect("sqlite", cfg.Storage.SQLitePath)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		db.SetMaxOpenConns(1)
		store, err = migrated(ctx, db)
		if err != nil {
			b.Close()
			return nil, err
		}

	case config.BackendBadger:
		bs, err := OpenBadgerStore(cfg.Storage.BadgerPath)
		if err != nil {
			b.Close()
			return nil, err
		}
		store = bs

	default:
		b.Close()
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if b.Redis != nil && cfg.Storage.CacheTTL > 0 && cfg.Storage.Backend != config.BackendRedis {
		store = NewCachedStore(store, b.Redis, cfg.Storage.CacheTTL, logger)
	}

	b.Store = store
	logger.Info("storage ready", "backend", cfg.Storage.Backend, "redis", b.Redis != nil)

	return b, nil
}

func migrated(ctx context.Context, db *sqlx.DB) (*SQLStore, error) {
	s := NewSQLStore(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the store and the redis client. A redis-backed store shares the
// client, so it is closed once.
func (b *Backend) Close() error {
	var firstErr error

	if b.Store != nil {
		if _, shared := b.Store.(*RedisStore); !shared {
			firstErr = b.Store.Close()
		}
	}
	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
