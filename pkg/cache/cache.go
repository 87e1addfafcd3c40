// Package cache stores JSON-encoded values under string keys with a TTL.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is implemented by the Redis and in-memory backends.
type Cache interface {
	// Get decodes the value stored at key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// ProductKey is the cache key of a single product.
func ProductKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// ProductKeys maps product IDs to their cache keys.
func ProductKeys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ProductKey(id)
	}
	return keys
}

// DashboardKey holds the cached admin dashboard.
const DashboardKey = "dashboard:stats"
