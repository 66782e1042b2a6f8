package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carpool-route-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

const routeKeyPrefix = "carpool:route:"

// RedisRouteCache stores provider route results in Redis as JSON with a TTL.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (*domain.RouteResult, bool, error) {
	b, err := c.client.Get(ctx, routeKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("route cache get: %w", err)
	}

	var res domain.RouteResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, false, fmt.Errorf("route cache get: decode %q: %w", key, err)
	}
	return &res, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, res *domain.RouteResult) error {
	if res == nil {
		return errors.New("route cache put: result is nil")
	}

	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("route cache put: encode: %w", err)
	}
	if err := c.client.Set(ctx, routeKeyPrefix+key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("route cache put: %w", err)
	}
	return nil
}
