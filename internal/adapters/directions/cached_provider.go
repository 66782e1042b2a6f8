package directions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/platform/metrics"
	"carpool-route-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedProvider puts a RouteCache in front of another MapProvider.
// Identical requests in flight at the same time share one upstream call.
type CachedProvider struct {
	next    ports.MapProvider
	cache   ports.RouteCache
	group   singleflight.Group
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewCachedProvider(next ports.MapProvider, cache ports.RouteCache, m *metrics.Metrics, log *zap.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, metrics: m, log: log}
}

// RequestKey fingerprints everything in req that affects the provider's answer.
func RequestKey(req domain.RouteRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%t", req.TravelMode, req.Origin, req.Destination, req.OptimizeWaypoints)
	for _, w := range req.Waypoints {
		fmt.Fprintf(&b, "|%s:%t", w.Location, w.Stopover)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func (c *CachedProvider) Route(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error) {
	key := RequestKey(req)

	// Cache errors degrade to a miss; the provider is the source of truth.
	cached, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("route cache get", zap.String("key", key), zap.Error(err))
	}
	c.metrics.CacheLookup(ok)
	if ok {
		return cached, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Detached so one caller's cancellation does not fail the others.
		callCtx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithDeadline(callCtx, deadline)
			defer cancel()
		}

		res, err := c.next.Route(callCtx, req)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Put(callCtx, key, res); err != nil {
			c.log.Warn("route cache put", zap.String("key", key), zap.Error(err))
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*domain.RouteResult), nil
	}
}
