package assets

import "sync"

// Cache is a concurrency-safe texture cache. Failed loads are cached too, so
// a missing texture referenced by many objects is searched for once.
type Cache struct {
	data map[string]Entry
	mu   sync.RWMutex

	hits   int
	misses int
}

// Entry is the result of one texture load.
type Entry struct {
	Texture *Texture
	Err     error
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]Entry),
	}
}

// Get retrieves a load result.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return entry, ok
}

// Set stores a load result and returns the stored entry. The first result
// stored for a key wins.
func (c *Cache) Set(key string, entry Entry) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.data[key]; ok {
		return existing
	}
	c.data[key] = entry
	return entry
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
