package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching data source responses within a
// single run.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from an arbitrary identifier.
func Key(id string) string {
	hash := sha256.Sum256([]byte(id))
	return "promotebot:v1:" + hex.EncodeToString(hash[:])
}
