package store

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value    string
	deadline time.Time
}

// MemoryStore is an in-memory implementation of ports.ReplayStore for
// single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
	}
}

// Put stores a key with a value and expiration time.
func (s *MemoryStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value, deadline: time.Now().Add(ttl)}
	return nil
}

// Get retrieves a value by key, treating expired entries as absent.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || time.Now().After(e.deadline) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Consume atomically deletes the key and returns its value. A key that has
// expired but not yet been swept counts as absent.
func (s *MemoryStore) Consume(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}
	delete(s.entries, key)

	if time.Now().After(e.deadline) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Sweep removes every expired entry and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range s.entries {
		if now.After(e.deadline) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
