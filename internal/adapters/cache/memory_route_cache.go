package cache

import (
	"context"
	"time"

	"carpool-route-service/internal/domain"

	"github.com/puzpuzpuz/xsync/v3"
)

type memoryEntry struct {
	result    *domain.RouteResult
	expiresAt time.Time
}

// MemoryRouteCache is an in-process RouteCache used when no Redis is
// configured. Expired entries are dropped lazily on lookup.
type MemoryRouteCache struct {
	entries *xsync.MapOf[string, memoryEntry]
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryRouteCache(ttl time.Duration) *MemoryRouteCache {
	return &MemoryRouteCache{
		entries: xsync.NewMapOf[string, memoryEntry](),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryRouteCache) Get(_ context.Context, key string) (*domain.RouteResult, bool, error) {
	e, ok := c.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expiresAt) {
		c.entries.Delete(key)
		return nil, false, nil
	}
	return e.result, true, nil
}

func (c *MemoryRouteCache) Put(_ context.Context, key string, res *domain.RouteResult) error {
	c.entries.Store(key, memoryEntry{result: res, expiresAt: c.now().Add(c.ttl)})
	return nil
}

func (c *MemoryRouteCache) Len() int {
	return c.entries.Size()
}
