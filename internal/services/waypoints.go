package services

import (
	"slices"

	"carpool-route-service/internal/domain"

	"github.com/samber/lo"
)

// OrderPassengers returns the selection sorted by ascending home latitude.
//
// The sort is stable, so passengers with equal latitude keep their selection
// order. This gives repeated runs over the same selection the same request.
func OrderPassengers(selection []domain.Passenger) []domain.Passenger {
	ordered := slices.Clone(selection)
	slices.SortStableFunc(ordered, func(a, b domain.Passenger) int {
		switch {
		case a.Home.Lat < b.Home.Lat:
			return -1
		case a.Home.Lat > b.Home.Lat:
			return 1
		}
		return 0
	})
	return ordered
}

// BuildWaypoints emits home then work for each passenger, in order.
func BuildWaypoints(ordered []domain.Passenger) []domain.Waypoint {
	return lo.FlatMap(ordered, func(p domain.Passenger, _ int) []domain.Waypoint {
		return []domain.Waypoint{
			{Location: p.Home.Coordinates, Role: domain.RoleHome, PassengerID: p.ID},
			{Location: p.Work.Coordinates, Role: domain.RoleWork, PassengerID: p.ID},
		}
	})
}

// BuildRouteRequest turns a waypoint sequence into a provider request.
// The first and last waypoints are fixed; every stop in between is a
// mandatory stopover the provider may reorder. At least two waypoints are
// required.
func BuildRouteRequest(waypoints []domain.Waypoint) domain.RouteRequest {
	inner := waypoints[1 : len(waypoints)-1]

	return domain.RouteRequest{
		Origin:      waypoints[0].Location,
		Destination: waypoints[len(waypoints)-1].Location,
		Waypoints: lo.Map(inner, func(w domain.Waypoint, _ int) domain.Stop {
			return domain.Stop{Location: w.Location, Stopover: true}
		}),
		OptimizeWaypoints: true,
		TravelMode:        domain.TravelModeDriving,
	}
}

// EffectiveStopOrder reconstructs the stop sequence the provider actually
// used: origin, intermediates permuted by order, destination. A nil or empty
// order means the intermediates were not reordered. ok is false when order
// is not a permutation of the intermediate indexes.
func EffectiveStopOrder(req domain.RouteRequest, order []int) (_ []domain.Coordinates, ok bool) {
	n := len(req.Waypoints)
	out := make([]domain.Coordinates, 0, n+2)
	out = append(out, req.Origin)

	if len(order) == 0 {
		for _, s := range req.Waypoints {
			out = append(out, s.Location)
		}
		return append(out, req.Destination), true
	}

	if len(order) != n {
		return nil, false
	}

	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return nil, false
		}
		seen[idx] = true
		out = append(out, req.Waypoints[idx].Location)
	}

	return append(out, req.Destination), true
}
