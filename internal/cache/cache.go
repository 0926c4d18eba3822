package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for page caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a URL. The version segment invalidates
// old entries when the cached representation changes.
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "lifelines:v1:" + hex.EncodeToString(hash[:])
}
