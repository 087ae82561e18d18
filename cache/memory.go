package cache

import (
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lotscan/lotscan/types"
	"github.com/lotscan/lotscan/utils"
)

const (
	DefaultTTL = 30 * time.Minute
	MaxTTL     = 24 * time.Hour
)

// MemoryCache is an in-process TTL store. Expiry is lazy: Get checks the
// deadline at read time, Size and Sweep drop whatever stale entries they
// encounter. There is no background goroutine; periodic sweeps are the
// scheduler's job.
type MemoryCache struct {
	config    *types.CacheConfig
	logger    types.Logger
	data      map[string]*types.CacheEntry
	mu        sync.RWMutex
	hits      uint64
	misses    uint64
	evictions uint64
	now       func() time.Time
}

func NewMemoryCache(logger types.Logger, config *types.CacheConfig) *MemoryCache {
	if config == nil {
		config = &types.CacheConfig{}
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultTTL
	}
	if config.MaxTTL <= 0 {
		config.MaxTTL = MaxTTL
	}

	return &MemoryCache{
		config: config,
		logger: logger,
		data:   make(map[string]*types.CacheEntry),
		now:    time.Now,
	}
}

func (m *MemoryCache) Get(key string) (interface{}, bool) {
	now := m.now()

	m.mu.RLock()
	entry, exists := m.data[key]
	if !exists {
		m.mu.RUnlock()
		atomic.AddUint64(&m.misses, 1)
		return nil, false
	}

	if entry.Expired(now) {
		m.mu.RUnlock()
		m.mu.Lock()
		if entry, exists := m.data[key]; exists && entry.Expired(now) {
			delete(m.data, key)
		}
		m.mu.Unlock()

		atomic.AddUint64(&m.misses, 1)
		return nil, false
	}

	value := entry.Value
	m.mu.RUnlock()

	atomic.AddUint64(&m.hits, 1)
	return value, true
}

func (m *MemoryCache) Set(key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		m.logger.Error("Attempted to set cache entry with empty key")
		return types.ErrCacheKeyEmpty
	}

	if ttl <= 0 {
		ttl = m.config.DefaultTTL
	}
	if ttl > m.config.MaxTTL {
		ttl = m.config.MaxTTL
	}

	now := m.now()
	entry := &types.CacheEntry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config.MaxEntries > 0 {
		if _, exists := m.data[key]; !exists && len(m.data) >= m.config.MaxEntries {
			m.evictOneUnsafe()
		}
	}

	m.data[key] = entry
	return nil
}

func (m *MemoryCache) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *MemoryCache) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.data[key]
	delete(m.data, key)
	return exists
}

func (m *MemoryCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]*types.CacheEntry)
}

// Size evicts expired entries it encounters before counting.
func (m *MemoryCache) Size() int {
	m.Sweep()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Sweep removes every expired entry and returns how many were dropped.
func (m *MemoryCache) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for key, entry := range m.data {
		if entry.Expired(now) {
			delete(m.data, key)
			expired++
		}
	}

	if expired > 0 && m.logger != nil {
		m.logger.Debug("Cache sweep completed", zap.Int("expired_entries", expired))
	}

	return expired
}

// GenerateKey produces a stable key for a logical parameter set. Names are
// sorted before serialization so construction order cannot change the key.
func (m *MemoryCache) GenerateKey(params map[string]interface{}) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	buf := make([]byte, 0, 256)
	buf = append(buf, '{')
	for i, name := range names {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, name)
		buf = append(buf, ':')

		encoded, err := utils.Marshal(params[name])
		if err != nil {
			buf = strconv.AppendQuote(buf, "?")
			continue
		}
		// sonic's stream encoder appends a trailing newline
		for len(encoded) > 0 && encoded[len(encoded)-1] == '\n' {
			encoded = encoded[:len(encoded)-1]
		}
		buf = append(buf, encoded...)
	}
	buf = append(buf, '}')

	return string(buf)
}

func (m *MemoryCache) Stats() types.CacheStats {
	m.mu.RLock()
	entries := len(m.data)
	m.mu.RUnlock()

	return types.CacheStats{
		Entries:   entries,
		Hits:      atomic.LoadUint64(&m.hits),
		Misses:    atomic.LoadUint64(&m.misses),
		Evictions: atomic.LoadUint64(&m.evictions),
	}
}

func (m *MemoryCache) evictOneUnsafe() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range m.data {
		if oldestKey == "" || entry.CreatedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.CreatedAt
		}
	}

	if oldestKey != "" {
		delete(m.data, oldestKey)
		atomic.AddUint64(&m.evictions, 1)
	}
}
