package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/distribution-service/internal/metrics"
)

// TTL is a thread-safe LRU cache whose entries also expire after a fixed duration.
// A background goroutine drops expired entries once the cache is mostly full; call Stop
// to end it.
type TTL[K comparable, V any] struct {
	mu        sync.RWMutex
	capacity  int
	ttl       time.Duration
	items     map[K]*entry[K, V]
	head      *entry[K, V]
	tail      *entry[K, V]
	stopCh    chan struct{}
	stopOnce  sync.Once
	hits      int64
	misses    int64
	evictions int64
	clock     func() time.Time
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
	prev      *entry[K, V]
	next      *entry[K, V]
}

// NewTTL creates an LRU cache holding at most capacity entries for ttl each.
func NewTTL[K comparable, V any](capacity int, ttl time.Duration) *TTL[K, V] {
	return newTTL[K, V](capacity, ttl, time.Now, time.Minute)
}

func newTTL[K comparable, V any](capacity int, ttl time.Duration, clock func() time.Time, sweep time.Duration) *TTL[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	c := &TTL[K, V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[K]*entry[K, V], capacity),
		stopCh:   make(chan struct{}),
		clock:    clock,
	}
	go c.startCleanup(sweep)
	return c
}

// Stop gracefully shuts down the cache and cleans up resources.
func (c *TTL[K, V]) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Metrics returns current cache performance metrics.
func (c *TTL[K, V]) Metrics() Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Metrics{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

// Get retrieves a value from the cache if it exists and hasn't expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "miss")
		return zero, false
	}
	if c.clock().After(e.expiresAt) {
		c.removeEntry(e)
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "expired")
		return zero, false
	}

	c.moveToFront(e)
	atomic.AddInt64(&c.hits, 1)
	metrics.RecordCacheOperation("get", "hit")
	return e.value, true
}

// Set adds or updates a value in the cache with the configured TTL.
// If the cache is at capacity, the least recently used entry is evicted.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = c.clock().Add(c.ttl)
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{
		key:       key,
		value:     value,
		expiresAt: c.clock().Add(c.ttl),
	}
	c.items[key] = e
	c.addToFront(e)

	if len(c.items) > c.capacity {
		c.removeTail()
		atomic.AddInt64(&c.evictions, 1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
	metrics.UpdateCacheMetrics(len(c.items), c.capacity)
}

// Invalidate removes a specific key from the cache.
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.removeEntry(e)
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

// Clear removes all entries from the cache and resets its counters.
func (c *TTL[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*entry[K, V], c.capacity)
	c.head = nil
	c.tail = nil

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)

	metrics.RecordCacheOperation("clear", "success")
	metrics.UpdateCacheMetrics(0, c.capacity)
}

// startCleanup runs an adaptive background cleanup routine.
func (c *TTL[K, V]) startCleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// only sweep once the cache is more than 80% full
			c.mu.RLock()
			shouldCleanup := len(c.items) > (c.capacity * 80 / 100)
			c.mu.RUnlock()

			if shouldCleanup {
				c.cleanup()
			}
		case <-c.stopCh:
			return
		}
	}
}

// cleanup removes all expired entries from the cache.
func (c *TTL[K, V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	for _, e := range c.items {
		if now.After(e.expiresAt) {
			c.removeEntry(e)
		}
	}
}

func (c *TTL[K, V]) removeEntry(e *entry[K, V]) {
	delete(c.items, e.key)
	c.remove(e)
}

func (c *TTL[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *TTL[K, V]) addToFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// remove unlinks e without touching the map.
func (c *TTL[K, V]) remove(e *entry[K, V]) {
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
	e.prev, e.next = nil, nil
}

// removeTail removes the least recently used entry from the cache.
func (c *TTL[K, V]) removeTail() {
	if c.tail == nil {
		return
	}
	c.removeEntry(c.tail)
}
