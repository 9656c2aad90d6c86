package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
)

var _ domain.KeyValueStore = (*CachedStore)(nil)

// CachedStore is a read-through redis cache in front of another store.
// Writes go to the underlying store first and then invalidate the cache, so
// cache failures never fail a write.
type CachedStore struct {
	next   domain.KeyValueStore
	cache  *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewCachedStore(next domain.KeyValueStore, cache *redis.Client, ttl time.Duration, logger *log.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *CachedStore) cacheKey(key string) string {
	return fmt.Sprintf("salah:cache:%s", key)
}

func (s *CachedStore) invalidate(ctx context.Context, key string) {
	if err := s.cache.Del(ctx, s.cacheKey(key)).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", "key", key, "err", err)
	}
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, error) {
	ck := s.cacheKey(key)

	val, err := s.cache.Get(ctx, ck).Result()
	if err == nil {
		return val, nil
	}
	if !errors.Is(err, redis.Nil) {
		s.logger.Warn("cache read failed", "key", key, "err", err)
	}

	val, err = s.next.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if setErr := s.cache.Set(ctx, ck, val, s.ttl).Err(); setErr != nil {
		s.logger.Warn("cache write failed", "key", key, "err", setErr)
	}

	return val, nil
}

func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := s.next.Set(ctx, key, value); err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *CachedStore) Remove(ctx context.Context, key string) error {
	if err := s.next.Remove(ctx, key); err != nil {
		return err
	}
	s.invalidate(ctx, key)
	return nil
}

func (s *CachedStore) Clear(ctx context.Context) error {
	if err := s.next.Clear(ctx); err != nil {
		return err
	}

	iter := s.cache.Scan(ctx, 0, s.cacheKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("cache invalidation failed", "key", iter.Val(), "err", err)
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("cache scan failed", "err", err)
	}

	return nil
}

func (s *CachedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the underlying store. The redis client is owned by the caller.
func (s *CachedStore) Close() error {
	return s.next.Close()
}
