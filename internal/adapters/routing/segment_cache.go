package routing

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/minsukang/tripweaver/internal/domain/geo"
	"github.com/minsukang/tripweaver/internal/domain/routing"
)

// CacheKey is the persisted cache keying contract: both endpoints rounded
// to three decimal places, roughly 100 m of precision. Consumers storing
// costs under this key must respect the cache TTL.
func CacheKey(from, to geo.LatLng) string {
	return fmt.Sprintf("%.3f,%.3f:%.3f,%.3f", from.Lat, from.Lng, to.Lat, to.Lng)
}

// SegmentCache is an LRU with per-entry TTL over materialized segment
// costs. Hits are deep-copied with the caller's key so detail slices are
// never shared across trips.
type SegmentCache struct {
	lru *expirable.LRU[string, routing.SegmentCost]
}

func NewSegmentCache(size int, ttl time.Duration) *SegmentCache {
	return &SegmentCache{
		lru: expirable.NewLRU[string, routing.SegmentCost](size, nil, ttl),
	}
}

// Get returns a copy of the cached cost rewritten to key
func (c *SegmentCache) Get(cacheKey string, key routing.SegmentKey) (routing.SegmentCost, bool) {
	cost, ok := c.lru.Get(cacheKey)
	if !ok {
		return routing.SegmentCost{}, false
	}
	return cost.CloneWithKey(key), true
}

func (c *SegmentCache) Add(cacheKey string, cost routing.SegmentCost) {
	c.lru.Add(cacheKey, cost)
}

// Len returns the live entry count
func (c *SegmentCache) Len() int {
	return c.lru.Len()
}
