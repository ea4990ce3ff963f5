package routing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tripmate/console/internal/models"
)

// Cache memoizes resolved geometry keyed by the waypoint pair. Storyboard
// segments for one ride hit the same pair repeatedly; live segments key on
// the moving position and naturally miss once it changes.
type Cache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	next  Resolver
}

type cacheEntry struct {
	path []models.LatLng
	ts   time.Time
}

// NewCache wraps next with a memoizing layer using the provided TTL.
func NewCache(next Resolver, ttl time.Duration) *Cache {
	return &Cache{store: make(map[string]cacheEntry), ttl: ttl, next: next}
}

func keyFor(a, b models.LatLng) string {
	return fmtLatLng(a) + "->" + fmtLatLng(b)
}

func fmtLatLng(p models.LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

func (c *Cache) Route(ctx context.Context, from, to models.LatLng) []models.LatLng {
	k := keyFor(from, to)
	c.mu.RLock()
	e, ok := c.store[k]
	c.mu.RUnlock()
	if ok && time.Since(e.ts) <= c.ttl {
		return e.path
	}
	path := c.next.Route(ctx, from, to)
	c.mu.Lock()
	c.store[k] = cacheEntry{path: path, ts: time.Now()}
	c.mu.Unlock()
	return path
}
