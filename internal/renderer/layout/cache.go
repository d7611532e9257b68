package layout

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/inkwell/internal/engine/tree"
)

// Cache keeps the layouts of recently displayed trees. Trees are keyed by
// identity, so a tree must not be modified once it has been laid out.
type Cache struct {
	mu        sync.Mutex
	entries   map[*tree.Node]*cacheEntry
	engine    *Engine
	maxSize   int
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	doc        *Document
	lastAccess time.Time
}

// NewCache creates a cache holding at most maxSize layouts (0 = unlimited).
func NewCache(engine *Engine, maxSize int) *Cache {
	return &Cache{
		entries: make(map[*tree.Node]*cacheEntry),
		engine:  engine,
		maxSize: max(maxSize, 0),
	}
}

// Get returns the layout of root, computing it on a miss.
func (c *Cache) Get(root *tree.Node) *Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[root]; ok {
		e.lastAccess = time.Now()
		c.hits.Add(1)
		return e.doc
	}
	c.misses.Add(1)

	doc := c.engine.Layout(root)
	c.entries[root] = &cacheEntry{doc: doc, lastAccess: time.Now()}
	if c.maxSize > 0 && len(c.entries) > c.maxSize {
		c.evict()
	}
	return doc
}

// Invalidate drops the layout of root.
func (c *Cache) Invalidate(root *tree.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, root)
}

// InvalidateAll clears the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[*tree.Node]*cacheEntry)
}

// evict removes the least recently used entries until under maxSize.
// Must be called with the lock held.
func (c *Cache) evict() {
	for len(c.entries) > c.maxSize {
		var oldest *tree.Node
		var at time.Time
		for root, e := range c.entries {
			if oldest == nil || e.lastAccess.Before(at) {
				oldest, at = root, e.lastAccess
			}
		}
		delete(c.entries, oldest)
		c.evictions.Add(1)
	}
}

// Size returns the number of cached layouts.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Engine returns the layout engine.
func (c *Cache) Engine() *Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

// SetEngine replaces the layout engine and invalidates the cache.
func (c *Cache) SetEngine(engine *Engine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = engine
	c.entries = make(map[*tree.Node]*cacheEntry)
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	size := c.Size()
	hits, misses := c.hits.Load(), c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int     // Current number of entries
	MaxSize   int     // Maximum entries allowed
	Hits      uint64  // Number of cache hits
	Misses    uint64  // Number of cache misses
	Evictions uint64  // Number of evicted entries
	HitRate   float64 // Hit rate (0.0 - 1.0)
}
