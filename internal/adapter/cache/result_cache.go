// Package cache memoizes fused retrieval results per subject and
// query. Entries die on TTL expiry or when the lexical index
// generation moves, so a re-ingest never serves stale rankings.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	maxSize int
	ttl     time.Duration
	gen     func() uint64
}

type entry struct {
	results   []domain.FusedChunk
	timestamp time.Time
	gen       uint64
}

// NewResultCache builds an LRU cache of maxSize entries with the given
// TTL. gen supplies the current index generation; nil pins it to zero.
func NewResultCache(maxSize int, ttl time.Duration, gen func() uint64) *ResultCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if gen == nil {
		gen = func() uint64 { return 0 }
	}
	return &ResultCache{
		entries: make(map[string]*entry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		gen:     gen,
	}
}

func cacheKey(subject, query string, k int) string {
	data := make([]byte, 0, len(subject)+len(query)+3)
	data = append(data, subject...)
	data = append(data, 0)
	data = append(data, query...)
	data = append(data, byte(k>>8), byte(k))
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *ResultCache) Get(subject, query string, k int) ([]domain.FusedChunk, bool) {
	key := cacheKey(subject, query, k)

	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()
	if !exists {
		return nil, false
	}

	if time.Since(e.timestamp) > c.ttl || e.gen != c.gen() {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()
	return e.results, true
}

func (c *ResultCache) Put(subject, query string, k int, results []domain.FusedChunk) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(subject, query, k)
	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxSize {
			c.evictOldest()
		}
		c.order = append(c.order, key)
	} else {
		c.moveToEnd(key)
	}
	c.entries[key] = &entry{
		results:   results,
		timestamp: time.Now(),
		gen:       c.gen(),
	}
}

func (c *ResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ResultCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *ResultCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *ResultCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedRetriever serves fused searches from the cache and falls
// through to the wrapped retriever on a miss. Errors are never cached.
type CachedRetriever struct {
	inner port.FusedRetriever
	cache *ResultCache
}

var _ port.FusedRetriever = (*CachedRetriever)(nil)

func NewCachedRetriever(inner port.FusedRetriever, cache *ResultCache) *CachedRetriever {
	return &CachedRetriever{
		inner: inner,
		cache: cache,
	}
}

func (r *CachedRetriever) Search(ctx context.Context, query, subject string, k int) ([]domain.FusedChunk, error) {
	if results, hit := r.cache.Get(subject, query, k); hit {
		return results, nil
	}

	results, err := r.inner.Search(ctx, query, subject, k)
	if err != nil {
		return nil, err
	}
	r.cache.Put(subject, query, k, results)
	return results, nil
}
