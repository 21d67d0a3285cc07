// Package cache provides a small in-memory TTL cache used to memoize
// rendered dashboard payloads. A successful bank link invalidates the root
// path so the next read reflects the new account.
package cache

import (
	"strings"
	"sync"
	"time"
)

type record struct {
	payload  []byte
	cachedAt time.Time
}

// Memory is a TTL cache keyed by request path.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*record
	ttl     time.Duration
	maxSize int
}

// NewMemory creates a cache with the given TTL. A zero TTL defaults to one
// minute; a zero maxSize defaults to 128 entries.
func NewMemory(ttl time.Duration, maxSize int) *Memory {
	if ttl == 0 {
		ttl = time.Minute
	}
	if maxSize == 0 {
		maxSize = 128
	}
	return &Memory{
		entries: make(map[string]*record),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get returns the cached payload for key, or false if absent or expired.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	rec, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Since(rec.cachedAt) > m.ttl {
		m.Invalidate(key)
		return nil, false
	}
	return rec.payload, true
}

// Set stores payload under key.
func (m *Memory) Set(key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Simple eviction if full
	if len(m.entries) >= m.maxSize {
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}

	m.entries[key] = &record{payload: payload, cachedAt: time.Now()}
}

// Invalidate drops the entry for key and every entry nested under it, so
// invalidating "/" clears all cached paths.
func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	for k := range m.entries {
		if strings.HasPrefix(k, key) {
			delete(m.entries, k)
		}
	}
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
