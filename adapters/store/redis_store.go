package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/layer-3/gatekeeper/core"
)

// RedisStore is a Redis implementation of ports.ReplayStore for
// multi-instance deployments. Expiry is delegated to Redis TTLs, so the
// store needs no sweeper.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a new Redis store. All keys are namespaced with the
// given prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Put stores a key with a value and expiration time.
func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nil
}

// Get retrieves a value by key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return value, true, nil
}

// Consume atomically deletes the key and returns its value via GETDEL, so
// concurrent consumers of the same nonce cannot both succeed.
func (s *RedisStore) Consume(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.GetDel(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return value, true, nil
}

// Delete removes a key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nil
}
