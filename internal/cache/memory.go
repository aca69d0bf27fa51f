package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements in-memory expiring caching
type MemoryCache[V any] struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache.
// ttl 0 means entries never expire.
func NewMemoryCache[V any](defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache[V] {
	if defaultTTL == 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryCache[V]{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	if val, found := c.cache.Get(key); found {
		if v, ok := val.(V); ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Set stores a value in the cache with the given TTL (0 = default TTL)
func (c *MemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}
