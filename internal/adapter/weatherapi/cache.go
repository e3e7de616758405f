package weatherapi

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
	"github.com/couchcryptid/storm-forecast-digest/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/mmcloughlin/geohash"
)

// defaultFeedTTL matches the upstream three-hour sample resolution.
const defaultFeedTTL = 3 * time.Hour

// CachedSource wraps a Source with an in-memory LRU cache keyed by the geohash
// cell of the requested coordinate.
type CachedSource struct {
	inner     Source
	cache     *lruCache
	precision uint
	metrics   *observability.Metrics
}

// NewCachedSource creates a cache decorator around a feed source.
func NewCachedSource(inner Source, maxEntries int, precision uint, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:     inner,
		cache:     newLRUCache(maxEntries, defaultFeedTTL, clockwork.NewRealClock()),
		precision: precision,
		metrics:   metrics,
	}
}

func (c *CachedSource) FetchFeed(ctx context.Context, lat, lon float64) (domain.Feed, error) {
	key := geohash.EncodeWithPrecision(lat, lon, c.precision)
	if feed, ok := c.cache.get(key); ok {
		c.metrics.FeedCache.WithLabelValues("hit").Inc()
		return feed, nil
	}
	c.metrics.FeedCache.WithLabelValues("miss").Inc()

	feed, err := c.inner.FetchFeed(ctx, lat, lon)
	if err != nil {
		return feed, err
	}
	// Upstream error feeds are not cached so the next request tries again.
	if feed.Error == "" {
		c.cache.put(key, feed)
	}
	return feed, nil
}

// lruCache is a thread-safe LRU cache of feeds with a fixed entry lifetime.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.Feed
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Feed, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Feed{}, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return domain.Feed{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Feed) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
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
