// Package local implements ChemistFlow's per-node cache tier: an
// LRU-bounded, per-entry-TTL in-memory cache, consulted before the
// distributed tier on every read.
package local

import (
	"container/list"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TTLCache is a thread-safe, generic LRU cache with per-item expiry.
// K must be comparable so it can key the backing map directly.
type TTLCache[K comparable, V any] struct {
	mu        sync.RWMutex
	items     map[K]*list.Element
	lru       *list.List
	maxItems  int
	hits      int64
	misses    int64
	evictions int64
	logger    *zap.Logger
}

type entry[K comparable, V any] struct {
	key    K
	value  V
	expiry time.Time
}

// Stats reports cumulative hit/miss/eviction counters for a TTLCache.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// New returns a TTLCache holding at most maxItems entries at once.
func New[K comparable, V any](maxItems int, logger *zap.Logger) *TTLCache[K, V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TTLCache[K, V]{
		items:    make(map[K]*list.Element),
		lru:      list.New(),
		maxItems: maxItems,
		logger:   logger,
	}
}

// Get returns the cached value for key, reporting false if absent or
// expired. A hit refreshes the entry's LRU position.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if time.Now().After(e.expiry) {
		c.removeElement(el)
		c.misses++
		return zero, false
	}
	c.lru.MoveToFront(el)
	c.hits++
	return e.value, true
}

// Set stores value under key with the given TTL, evicting the least
// recently used entry if the cache is at capacity.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expiry = time.Now().Add(ttl)
		c.lru.MoveToFront(el)
		return
	}

	for c.maxItems > 0 && len(c.items) >= c.maxItems {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		c.evictions++
	}

	el := c.lru.PushFront(&entry[K, V]{key: key, value: value, expiry: time.Now().Add(ttl)})
	c.items[key] = el
}

// Delete removes key from the cache, if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// CreateIfAbsent atomically inserts value under key only if no entry is
// currently present, expired or not — an expired-but-unswept entry still
// counts as present, matching the observed createIfAbsent contract. It
// reports false when an entry already occupied key.
func (c *TTLCache[K, V]) CreateIfAbsent(key K, value V, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		return false
	}

	for c.maxItems > 0 && len(c.items) >= c.maxItems {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
		c.evictions++
	}

	el := c.lru.PushFront(&entry[K, V]{key: key, value: value, expiry: time.Now().Add(ttl)})
	c.items[key] = el
	return true
}

// CleanExpired sweeps every entry whose TTL has elapsed, rather than
// relying on Get's lazy per-key expiry check. It returns the number of
// entries removed.
func (c *TTLCache[K, V]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for el := c.lru.Back(); el != nil; {
		prev := el.Prev()
		if e := el.Value.(*entry[K, V]); now.After(e.expiry) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *TTLCache[K, V]) removeElement(el *list.Element) {
	e := el.Value.(*entry[K, V])
	c.lru.Remove(el)
	delete(c.items, e.key)
}

// Stats returns a snapshot of the cache's hit/miss/eviction counters.
func (c *TTLCache[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions, Size: len(c.items)}
}
