// Package kv provides the namespaced key-value storage capability guest
// carts live in. The interface keeps cart reconciliation testable without
// a Redis instance; production wires the Redis implementation.
package kv

import (
	"context"
	"time"
)

// Store is a minimal expiring key-value store.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes the value. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Del removes the key; deleting an absent key is not an error.
	Del(ctx context.Context, key string) error
}
