package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", "v", time.Minute))

	value, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreConsumeOnce(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "nonce", "challenge", time.Minute))

	value, ok, err := s.Consume(ctx, "nonce")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "challenge", value)

	_, ok, err = s.Consume(ctx, "nonce")
	require.NoError(t, err)
	require.False(t, ok, "second consume must fail")
}

func TestMemoryStoreConsumeExpired(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "nonce", "challenge", -time.Second))

	_, ok, err := s.Consume(ctx, "nonce")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreGetExpired(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", "v", -time.Second))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreConcurrentConsume(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "nonce", "challenge", time.Minute))

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := s.Consume(ctx, "nonce"); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	require.Equal(t, 1, count, "exactly one concurrent consumer may win")
}

func TestMemoryStoreSweep(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "live", "v", time.Minute))
	require.NoError(t, s.Put(ctx, "dead1", "v", -time.Second))
	require.NoError(t, s.Put(ctx, "dead2", "v", -time.Second))

	require.Equal(t, 2, s.Sweep())
	require.Equal(t, 1, s.Len())

	_, ok, err := s.Get(ctx, "live")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSweeperStops(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(context.Background(), "dead", "v", -time.Second))

	sw := NewSweeper(s, 5*time.Millisecond)
	sw.Start(context.Background())

	require.Eventually(t, func() bool {
		return s.Len() == 0
	}, time.Second, 5*time.Millisecond)

	sw.Stop()
}
