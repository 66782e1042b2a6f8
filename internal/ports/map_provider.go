package ports

import (
	"context"

	"carpool-route-service/internal/domain"
)

// Contract for computing a multi-stop route.
//
// Implementations report non-success provider outcomes as
// *domain.RoutingFailure so callers can surface the provider status.
type MapProvider interface {
	// Return the route for req, possibly with intermediate stops reordered.
	Route(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error)
}
