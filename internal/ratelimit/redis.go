package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/layer-3/gatekeeper/core"
)

// RedisLimiter enforces budgets with Redis INCR counters so multiple
// instances share one view of each client's window.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisLimiter creates a limiter backed by the given Redis client.
func NewRedisLimiter(client redis.UniversalClient, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
	}
}

// Allow records one request and reports whether it fits the budget. The
// first increment of a window sets its expiry, which doubles as the reset
// time reported to clients.
func (l *RedisLimiter) Allow(ctx context.Context, clientID string, p Policy) (Result, error) {
	key := l.prefix + counterKey(clientID, p)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, p.Window).Err(); err != nil {
			return Result{}, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
		}
	}

	ttl, err := l.client.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = p.Window
	}

	remaining := p.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   count <= int64(p.Limit),
		Limit:     p.Limit,
		Remaining: remaining,
		Reset:     time.Now().Add(ttl),
	}, nil
}

// Forgive refunds one counted request. A refund racing a window expiry can
// leave a negative counter; the compensating increment keeps it at zero.
func (l *RedisLimiter) Forgive(ctx context.Context, clientID string, p Policy) error {
	key := l.prefix + counterKey(clientID, p)

	count, err := l.client.Decr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	if count < 0 {
		if err := l.client.Incr(ctx, key).Err(); err != nil {
			return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
		}
	}
	return nil
}
