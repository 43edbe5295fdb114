package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/shrek82/tagcheck/schema"
)

// MemoryCacheMiddleware keeps loaded schema lists in memory for TTL.
type MemoryCacheMiddleware struct {
	items      map[string]memoryCacheEntry
	mu         sync.RWMutex
	stopClean  chan struct{}
	stopOnce   sync.Once
	DefaultTTL time.Duration
	// CleanupInterval controls how often expired entries are purged.
	CleanupInterval time.Duration
}

type memoryCacheEntry struct {
	list      *schema.List
	expiresAt time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCacheMiddleware {
	return &MemoryCacheMiddleware{
		items:           make(map[string]memoryCacheEntry),
		stopClean:       make(chan struct{}),
		DefaultTTL:      ttlOrDefault(ttl),
		CleanupInterval: time.Minute,
	}
}

func (m *MemoryCacheMiddleware) Name() string {
	return "MemoryCache"
}

func (m *MemoryCacheMiddleware) Init() error {
	go m.cleanupLoop()
	return nil
}

func (m *MemoryCacheMiddleware) cleanupLoop() {
	ticker := time.NewTicker(m.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopClean:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *MemoryCacheMiddleware) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for k, v := range m.items {
		if now.After(v.expiresAt) {
			delete(m.items, k)
		}
	}
}

func (m *MemoryCacheMiddleware) Shutdown() error {
	m.stopOnce.Do(func() { close(m.stopClean) })
	return nil
}

// Len returns the number of cached entries, expired or not.
func (m *MemoryCacheMiddleware) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryCacheMiddleware) Process(ctx context.Context, src schema.Source, next schema.LoadFunc) (*schema.List, error) {
	key := cacheKey(src)

	m.mu.RLock()
	entry, found := m.items[key]
	m.mu.RUnlock()

	if found {
		if time.Now().Before(entry.expiresAt) {
			return entry.list, nil
		}
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
	}

	l, err := next(ctx, src)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.items[key] = memoryCacheEntry{list: l, expiresAt: time.Now().Add(m.DefaultTTL)}
	m.mu.Unlock()
	return l, nil
}
