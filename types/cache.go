package types

import (
	"time"
)

// Cache is a process-local TTL keyed store. Get never returns an expired
// value; expiry is enforced lazily at read time. Values handed back by Get
// are shared references and must be treated as read-only by callers.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration) error
	Has(key string) bool
	Delete(key string) bool
	Clear()
	Size() int
	Sweep() int
	GenerateKey(params map[string]interface{}) string
	Stats() CacheStats
}

// CacheEntry is owned exclusively by the cache; it is created on Set and
// invalidated lazily when ExpiresAt passes.
type CacheEntry struct {
	Value     interface{}
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is stale at the given instant.
func (e *CacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

type CacheStats struct {
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}
