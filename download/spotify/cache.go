package spotify

import (
	"container/list"
	"sync"
	"time"
)

// CacheStats holds cache statistics.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Size    int
	MaxSize int
}

type cacheEntry struct {
	key       string
	value     interface{}
	expiresAt time.Time
	element   *list.Element
}

// TTLCache is a thread-safe TTL cache with LRU eviction. Collection
// lookups during queue building and metadata fetches during downloading
// hit the same objects, so a short-lived in-process cache avoids paying
// for the same API call twice in one run.
type TTLCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lruList *list.List
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64
}

// NewTTLCache creates a cache holding at most maxSize entries, each
// valid for ttl.
func NewTTLCache(maxSize int, ttl time.Duration) *TTLCache {
	return &TTLCache{
		entries: make(map[string]*cacheEntry),
		lruList: list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache. Returns nil if not found or
// expired.
func (c *TTLCache) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		return nil
	}

	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.lruList.Remove(entry.element)
		c.misses++
		return nil
	}

	c.lruList.MoveToFront(entry.element)
	c.hits++
	return entry.value
}

// Set stores a value in the cache, evicting the least recently used
// entry when full.
func (c *TTLCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.entries[key]; exists {
		existing.value = value
		existing.expiresAt = time.Now().Add(c.ttl)
		c.lruList.MoveToFront(existing.element)
		return
	}

	if len(c.entries) >= c.maxSize {
		if back := c.lruList.Back(); back != nil {
			old := back.Value.(*cacheEntry)
			delete(c.entries, old.key)
			c.lruList.Remove(back)
		}
	}

	entry := &cacheEntry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	entry.element = c.lruList.PushFront(entry)
	c.entries[key] = entry
}

// Clear removes all entries from the cache.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lruList = list.New()
}

// Stats returns cache statistics.
func (c *TTLCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    len(c.entries),
		MaxSize: c.maxSize,
	}
}
