package repository

import (
	"context"
)

// cacheKeyPrefix namespaces every cached payload.
const cacheKeyPrefix = "dummy-product-"

// PayloadStore is the key-value boundary used to persist the last successful
// products response. Implementations are last-write-wins and never expire entries.
type PayloadStore interface {
	// Get returns the value stored under key.
	// The boolean is false when no entry exists; that is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous entry.
	Set(ctx context.Context, key string, value []byte) error
}

// CacheKey returns the store key for a caller-supplied storage key.
func CacheKey(storageKey string) string {
	return cacheKeyPrefix + storageKey
}
