// Package cache provides a TTL-bounded, capacity-bounded cache for
// language-model call results, with an optional fuzzy lookup that matches
// semantically similar keys by keyword overlap.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Defaults sized for per-query language-model results.
const (
	DefaultTTL            = time.Hour
	DefaultCapacity       = 500
	DefaultFuzzyThreshold = 0.6
	minFuzzyKeywordLength = 3
)

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	FuzzyHits int64 `json:"fuzzy_hits"`
	Size      int   `json:"size"`
}

type entry struct {
	key      string
	keywords map[string]struct{}
	value    any
	expires  time.Time
}

// Cache is a concurrency-safe LRU cache with per-entry TTL.
type Cache struct {
	mu        sync.Mutex
	ttl       time.Duration
	capacity  int
	threshold float64
	order     *list.List
	entries   map[string]*list.Element
	hits      int64
	misses    int64
	fuzzyHits int64
	now       func() time.Time
}

// NewCacheParams configures a Cache. Zero values fall back to the defaults.
type NewCacheParams struct {
	TTL            time.Duration
	Capacity       int
	FuzzyThreshold float64
}

// NewCache creates an empty cache.
func NewCache(params NewCacheParams) *Cache {
	if params.TTL <= 0 {
		params.TTL = DefaultTTL
	}
	if params.Capacity <= 0 {
		params.Capacity = DefaultCapacity
	}
	if params.FuzzyThreshold <= 0 {
		params.FuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Cache{
		ttl:       params.TTL,
		capacity:  params.Capacity,
		threshold: params.FuzzyThreshold,
		order:     list.New(),
		entries:   make(map[string]*list.Element),
		now:       time.Now,
	}
}

// Get returns the value for an exact key, if present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	e := elem.Value.(*entry)
	if c.now().After(e.expires) {
		c.removeLocked(elem)
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return e.value, true
}

// GetFuzzy returns the value of the best unexpired entry whose keyword set
// overlaps the key's by at least the Jaccard threshold. Exact matches win
// outright.
func (c *Cache) GetFuzzy(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		if !c.now().After(e.expires) {
			c.order.MoveToFront(elem)
			c.hits++
			return e.value, true
		}
		c.removeLocked(elem)
	}

	keywords := extractKeywords(key)
	if len(keywords) == 0 {
		c.misses++
		return nil, false
	}

	var (
		best      *list.Element
		bestScore float64
	)
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry)
		if c.now().After(e.expires) {
			continue
		}
		score := jaccard(keywords, e.keywords)
		if score >= c.threshold && score > bestScore {
			best = elem
			bestScore = score
		}
	}
	if best == nil {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(best)
	c.fuzzyHits++
	return best.Value.(*entry).value, true
}

// Set stores a value under a key, evicting the least recently used entry
// when the cache is full.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.expires = c.now().Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	for len(c.entries) >= c.capacity {
		c.removeLocked(c.order.Back())
	}

	elem := c.order.PushFront(&entry{
		key:      key,
		keywords: extractKeywords(key),
		value:    value,
		expires:  c.now().Add(c.ttl),
	})
	c.entries[key] = elem
}

// Stats returns a snapshot of the hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		FuzzyHits: c.fuzzyHits,
		Size:      len(c.entries),
	}
}

func (c *Cache) removeLocked(elem *list.Element) {
	if elem == nil {
		return
	}
	e := elem.Value.(*entry)
	delete(c.entries, e.key)
	c.order.Remove(elem)
}

func extractKeywords(key string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, term := range strings.Fields(strings.ToLower(key)) {
		term = strings.Trim(term, ".,;:!?\"'()")
		if len(term) >= minFuzzyKeywordLength {
			keywords[term] = struct{}{}
		}
	}
	return keywords
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for term := range a {
		if _, ok := b[term]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
