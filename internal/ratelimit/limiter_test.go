package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterBudget(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()
	p := Policy{Name: "test", Limit: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		result, err := l.Allow(ctx, "1.2.3.4", p)
		require.NoError(t, err)
		require.True(t, result.Allowed, "request %d should fit the budget", i+1)
		require.Equal(t, 3, result.Limit)
		require.Equal(t, 2-i, result.Remaining)
	}

	result, err := l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.False(t, result.Allowed, "request over the limit must be denied")
	require.Equal(t, 0, result.Remaining)

	// Another client is unaffected.
	result, err = l.Allow(ctx, "5.6.7.8", p)
	require.NoError(t, err)
	require.True(t, result.Allowed)
}

func TestMemoryLimiterNextWindow(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()
	p := Policy{Name: "test", Limit: 1, Window: 30 * time.Millisecond}

	result, err := l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.False(t, result.Allowed)

	time.Sleep(40 * time.Millisecond)

	result, err = l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.True(t, result.Allowed, "request in the next window must succeed")
}

func TestMemoryLimiterForgive(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()
	p := Policy{Name: "test", Limit: 1, Window: time.Minute}

	result, err := l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.True(t, result.Allowed)

	require.NoError(t, l.Forgive(ctx, "1.2.3.4", p))

	result, err = l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.True(t, result.Allowed, "forgiven slot must be reusable")
}

func TestMemoryLimiterSweep(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()
	p := Policy{Name: "test", Limit: 1, Window: 10 * time.Millisecond}

	_, err := l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, l.Sweep())
}

func newRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client, "rl:"), mr
}

func TestRedisLimiterBudget(t *testing.T) {
	l, _ := newRedisLimiter(t)
	ctx := context.Background()
	p := Policy{Name: "test", Limit: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		result, err := l.Allow(ctx, "1.2.3.4", p)
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	result, err := l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.False(t, result.Allowed)
}

func TestRedisLimiterNextWindow(t *testing.T) {
	l, mr := newRedisLimiter(t)
	ctx := context.Background()
	p := Policy{Name: "test", Limit: 1, Window: time.Minute}

	result, err := l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.False(t, result.Allowed)

	mr.FastForward(2 * time.Minute)

	result, err = l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.True(t, result.Allowed)
}

func TestRedisLimiterForgive(t *testing.T) {
	l, _ := newRedisLimiter(t)
	ctx := context.Background()
	p := Policy{Name: "test", Limit: 1, Window: time.Minute}

	result, err := l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.True(t, result.Allowed)

	require.NoError(t, l.Forgive(ctx, "1.2.3.4", p))

	result, err = l.Allow(ctx, "1.2.3.4", p)
	require.NoError(t, err)
	require.True(t, result.Allowed)
}
