package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/platform/obs"

	"go.uber.org/zap"
)

// SQLRouteCache is a Postgres-backed RouteCache. Rows older than ttl are
// treated as misses and overwritten on the next Put.
type SQLRouteCache struct {
	DB  *sql.DB
	ttl time.Duration
	log *zap.Logger
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration, log *zap.Logger) *SQLRouteCache {
	return &SQLRouteCache{DB: db, ttl: ttl, log: log}
}

func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ *domain.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, s.log, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT payload
	FROM route_cache
	WHERE request_key = $1
		AND created_at > $2;
	`

	var payload []byte
	err = s.DB.QueryRowContext(ctx, q, key, time.Now().Add(-s.ttl)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var res domain.RouteResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode payload: %w", err)
	}
	return &res, true, nil
}

func (s *SQLRouteCache) Put(ctx context.Context, key string, res *domain.RouteResult) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("insert route cache: encode payload: %w", err)
	}

	q := `
	INSERT INTO route_cache (request_key, payload, created_at)
	VALUES ($1, $2, now())
	ON CONFLICT (request_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = EXCLUDED.created_at;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, payload); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}
