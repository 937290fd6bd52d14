package geo

import (
	"math"
	"slices"
	"sync"

	"github.com/couchcryptid/quake-impact/internal/domain"
	"github.com/couchcryptid/quake-impact/internal/observability"
)

// CachedSearcher wraps a Searcher with an in-memory LRU cache keyed by search
// center and radius.
type CachedSearcher struct {
	inner   Searcher
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSearcher creates a cache decorator around a searcher.
func NewCachedSearcher(inner Searcher, maxEntries int, metrics *observability.Metrics) *CachedSearcher {
	return &CachedSearcher{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

// FindNearby returns a copy of the cached result, so callers may sort it.
// Searches with a NaN center or radius go straight to the inner searcher:
// NaN never equals itself, so such keys could neither hit nor be evicted.
func (c *CachedSearcher) FindNearby(center domain.LocatedPoint, radiusKm float64) []domain.NearbyCityResult {
	if math.IsNaN(radiusKm) || math.IsNaN(center.Lat) || math.IsNaN(center.Lon) {
		c.metrics.NearbyCache.WithLabelValues("bypass").Inc()
		return c.inner.FindNearby(center, radiusKm)
	}

	key := searchKey{center: center, radiusKm: radiusKm}
	if results, ok := c.cache.get(key); ok {
		c.metrics.NearbyCache.WithLabelValues("hit").Inc()
		return slices.Clone(results)
	}
	c.metrics.NearbyCache.WithLabelValues("miss").Inc()

	results := c.inner.FindNearby(center, radiusKm)
	c.cache.put(key, slices.Clone(results))
	return results
}

type searchKey struct {
	center   domain.LocatedPoint
	radiusKm float64
}

// lruCache is a simple thread-safe LRU cache of search results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[searchKey]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   searchKey
	value []domain.NearbyCityResult
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[searchKey]*entry),
	}
}

func (c *lruCache) get(key searchKey) ([]domain.NearbyCityResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key searchKey, value []domain.NearbyCityResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
