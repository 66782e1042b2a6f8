package directions

import (
	"context"
	"fmt"
	"math"

	"carpool-route-service/internal/domain"
)

const (
	earthRadiusMeters = 6371000.0
	// Average urban driving speed used to turn distance into duration.
	mockSpeedMetersPerSecond = 40000.0 / 3600.0
)

// MockMapProvider answers route requests offline with straight-line legs.
// When waypoint optimization is requested it visits intermediate stops in
// greedy nearest-neighbour order, so responses carry a real permutation.
type MockMapProvider struct{}

func NewMockMapProvider() *MockMapProvider {
	return &MockMapProvider{}
}

func (p *MockMapProvider) Route(ctx context.Context, req domain.RouteRequest) (*domain.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := identityOrder(len(req.Waypoints))
	if req.OptimizeWaypoints {
		order = nearestNeighborOrder(req.Origin, req.Waypoints)
	}

	stops := make([]domain.Coordinates, 0, len(req.Waypoints)+2)
	stops = append(stops, req.Origin)
	for _, idx := range order {
		stops = append(stops, req.Waypoints[idx].Location)
	}
	stops = append(stops, req.Destination)

	legs := make([]domain.Leg, 0, len(stops)-1)
	for i := 0; i+1 < len(stops); i++ {
		meters := int(math.Round(haversineMeters(stops[i], stops[i+1])))
		seconds := int(math.Round(float64(meters) / mockSpeedMetersPerSecond))

		legs = append(legs, domain.Leg{
			Distance:      domain.TextValue{Text: fmt.Sprintf("%.1f km", float64(meters)/1000), Value: meters},
			Duration:      domain.TextValue{Text: fmt.Sprintf("%d mins", int(math.Round(float64(seconds)/60))), Value: seconds},
			StartLocation: stops[i],
			EndLocation:   stops[i+1],
		})
	}

	return &domain.RouteResult{Legs: legs, WaypointOrder: order}, nil
}

func identityOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// nearestNeighborOrder repeatedly moves to the closest unvisited stop.
// Ties go to the lower request index so the order is deterministic.
func nearestNeighborOrder(start domain.Coordinates, stops []domain.Stop) []int {
	remaining := make(map[int]struct{}, len(stops))
	for i := range stops {
		remaining[i] = struct{}{}
	}

	order := make([]int, 0, len(stops))
	current := start

	for len(remaining) > 0 {
		best := -1
		bestDist := math.MaxFloat64

		for i := range remaining {
			d := haversineMeters(current, stops[i].Location)
			if d < bestDist || (d == bestDist && i < best) {
				bestDist = d
				best = i
			}
		}

		order = append(order, best)
		delete(remaining, best)
		current = stops[best].Location
	}

	return order
}

func haversineMeters(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
