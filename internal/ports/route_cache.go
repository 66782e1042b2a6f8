package ports

import (
	"context"

	"carpool-route-service/internal/domain"
)

// Cache of provider results keyed by a request fingerprint.
type RouteCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, key string) (result *domain.RouteResult, ok bool, err error)
	Put(ctx context.Context, key string, result *domain.RouteResult) error
}
