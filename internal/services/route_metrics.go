package services

import (
	"fmt"
	"math"

	"carpool-route-service/internal/domain"

	"github.com/samber/lo"
)

// PendingText is shown while a passenger's leg is not known yet.
const PendingText = "Calculating..."

func pendingMetric(id string) domain.PassengerMetric {
	return domain.PassengerMetric{
		PassengerID:  id,
		DistanceText: PendingText,
		DurationText: PendingText,
		Pending:      true,
	}
}

// PassengerMetricFor attributes to p the leg that starts at p's home.
//
// The home location is the one recorded when the route was requested. It is
// matched against the provider's effective stop order within
// domain.CoordinateTolerance; the first match at index i selects Legs[i].
// Provider text is passed through untouched. When nothing matches the metric
// is pending rather than an error: the next successful run resolves it.
func PassengerMetricFor(p domain.Passenger, state *domain.RouteState) domain.PassengerMetric {
	if state == nil || state.Result == nil {
		return pendingMetric(p.ID)
	}

	recorded, ok := lo.Find(state.UserLocations, func(u domain.Passenger) bool { return u.ID == p.ID })
	if !ok {
		return pendingMetric(p.ID)
	}

	_, i, ok := lo.FindIndexOf(state.OrderedLocations, func(c domain.Coordinates) bool {
		return c.Near(recorded.Home.Coordinates, domain.CoordinateTolerance)
	})
	if !ok || i >= len(state.Result.Legs) {
		return pendingMetric(p.ID)
	}

	leg := state.Result.Legs[i]
	return domain.PassengerMetric{
		PassengerID:  p.ID,
		DistanceText: leg.Distance.Text,
		DurationText: leg.Duration.Text,
	}
}

// PassengerMetrics returns one metric per selected passenger, in selection order.
func PassengerMetrics(selection []domain.Passenger, state *domain.RouteState) []domain.PassengerMetric {
	return lo.Map(selection, func(p domain.Passenger, _ int) domain.PassengerMetric {
		return PassengerMetricFor(p, state)
	})
}

// Aggregate sums raw distance and duration over every leg, independent of
// per-passenger attribution. Distance is shown in km with one decimal and
// duration in whole minutes.
func Aggregate(state *domain.RouteState) domain.RouteTotals {
	if state == nil || state.Result == nil || len(state.Result.Legs) == 0 {
		return domain.RouteTotals{TotalDistanceText: "0 km", TotalDurationText: "0 mins"}
	}

	meters := lo.SumBy(state.Result.Legs, func(l domain.Leg) int { return l.Distance.Value })
	seconds := lo.SumBy(state.Result.Legs, func(l domain.Leg) int { return l.Duration.Value })

	return domain.RouteTotals{
		TotalDistanceText:    fmt.Sprintf("%.1f km", float64(meters)/1000),
		TotalDurationText:    fmt.Sprintf("%d mins", int(math.Round(float64(seconds)/60))),
		TotalDistanceMeters:  meters,
		TotalDurationSeconds: seconds,
	}
}
