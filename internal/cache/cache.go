package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for in-process memoization
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
}

// Key generates a cache key from arbitrary text.
// Namespaced so different memo tables never collide.
func Key(namespace, text string) string {
	hash := sha256.Sum256([]byte(text))
	return "pitchprophet:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}
