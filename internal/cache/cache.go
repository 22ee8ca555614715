// Package cache holds recently fetched candidate lists so repeated
// searches for the same topic never re-spend API quota.
package cache

import (
	"strings"
	"sync"
	"time"

	"learnpath/internal/models"
)

type entry struct {
	candidates []models.Candidate
	storedAt   time.Time
}

// Cache is a TTL-bounded, capacity-bounded store keyed by normalized
// topic. When full, the oldest inserted entry is evicted (insertion
// order, not LRU). Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*entry
	order      []string

	now func() time.Time
}

func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
		now:        time.Now,
	}
}

// Normalize maps a free-text topic to its cache key.
func Normalize(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// Get returns the cached candidate list for a topic, if present and
// unexpired.
func (c *Cache) Get(topic string) ([]models.Candidate, bool) {
	key := Normalize(topic)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.remove(key)
		return nil, false
	}
	return e.candidates, true
}

// Put stores a candidate list, evicting the oldest entry if the cache
// is at capacity.
func (c *Cache) Put(topic string, candidates []models.Candidate) {
	key := Normalize(topic)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	if len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		c.remove(c.order[0])
	}
	c.entries[key] = &entry{candidates: candidates, storedAt: c.now()}
	c.order = append(c.order, key)
}

// Sweep drops all expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if c.now().Sub(e.storedAt) >= c.ttl {
			c.remove(key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove deletes an entry and its order slot. Caller holds the lock.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
