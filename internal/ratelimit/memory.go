package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count    int
	start    time.Time
	duration time.Duration
}

// MemoryLimiter is an in-process fixed-window limiter. Counters are not
// persisted beyond process lifetime.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

// NewMemoryLimiter creates a new in-memory limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
	}
}

// Allow records one request and reports whether it fits the budget.
func (l *MemoryLimiter) Allow(ctx context.Context, clientID string, p Policy) (Result, error) {
	key := counterKey(clientID, p)
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= p.Window {
		w = &window{start: now, duration: p.Window}
		l.windows[key] = w
	}
	w.count++

	remaining := p.Limit - w.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   w.count <= p.Limit,
		Limit:     p.Limit,
		Remaining: remaining,
		Reset:     w.start.Add(p.Window),
	}, nil
}

// Forgive refunds one counted request within the current window.
func (l *MemoryLimiter) Forgive(ctx context.Context, clientID string, p Policy) error {
	key := counterKey(clientID, p)

	l.mu.Lock()
	defer l.mu.Unlock()

	if w, ok := l.windows[key]; ok && w.count > 0 {
		w.count--
	}
	return nil
}

// Sweep drops windows that have fully elapsed and returns how many were
// removed, so a store sweeper can bound memory growth.
func (l *MemoryLimiter) Sweep() int {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.windows {
		if now.Sub(w.start) >= w.duration {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}
