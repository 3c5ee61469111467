package sim

import (
	"container/list"
	"sync"
)

// defaultCacheSize bounds the result cache.
const defaultCacheSize = 256

// resultCache memoizes reports by query fingerprint with LRU eviction.
// Reads and writes are mutex-guarded so parallel queries stay safe.
type resultCache struct {
	mu      sync.Mutex
	maxSize int
	order   *list.List // front = most recently used
	entries map[string]*list.Element
}

type cacheEntry struct {
	key    string
	report *Report
}

func newResultCache(maxSize int) *resultCache {
	if maxSize <= 0 {
		maxSize = defaultCacheSize
	}
	return &resultCache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// get returns the cached report for key, promoting it to most recently used.
func (c *resultCache) get(key string) (*Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).report, true
}

// put stores a report, evicting the least recently used entry when full.
func (c *resultCache) put(key string, report *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).report = report
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{key: key, report: report})
	c.entries[key] = el

	for c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// purge drops every entry. Used for the coarse invalidation when deck or
// hand size changes between queries.
func (c *resultCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// len reports the number of cached entries.
func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
