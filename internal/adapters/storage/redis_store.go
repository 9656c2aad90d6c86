package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/salah-sync-engine/internal/core/domain"
)

var _ domain.KeyValueStore = (*RedisStore)(nil)

// RedisStore keeps every key under a namespace so Clear never touches keys
// owned by other applications sharing the database.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "salah"
	}
	return &RedisStore{
		client:    client,
		namespace: namespace,
	}
}

func (s *RedisStore) key(k string) string {
	return fmt.Sprintf("%s:%s", s.namespace, k)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis store: get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis store: set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis store: remove %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.key("*"), 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis store: scan: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis store: clear: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
