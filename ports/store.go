package ports

import (
	"context"
	"time"
)

// ReplayStore is a TTL key-value store backing nonce replay protection,
// CSRF tokens and the logout denylist. Implementations must make Consume
// an atomic check-and-delete so two concurrent requests can never both
// observe the same key as unused.
type ReplayStore interface {
	// Put stores a key with a value and expiration time.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get retrieves a value by key. ok is false if the key is absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Consume deletes the key and returns its value, atomically.
	// ok is false if the key was absent or already expired.
	Consume(ctx context.Context, key string) (value string, ok bool, err error)

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
