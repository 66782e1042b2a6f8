package dto

import (
	"time"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/services"
)

type CreateSessionRequest struct {
	Status string `json:"status" validate:"omitempty,max=64"`
}

type ToggleRequest struct {
	PassengerID string `json:"passenger_id" validate:"required,max=128"`
}

type ToggleResponse struct {
	PassengerID string `json:"passenger_id"`
	Selected    bool   `json:"selected"`
}

type CreateSessionResponse struct {
	SessionID  string              `json:"session_id"`
	Passengers []PassengerResponse `json:"passengers"`
}

type LegResponse struct {
	DistanceText    string             `json:"distance_text"`
	DistanceMeters  int                `json:"distance_meters"`
	DurationText    string             `json:"duration_text"`
	DurationSeconds int                `json:"duration_seconds"`
	Start           domain.Coordinates `json:"start"`
	End             domain.Coordinates `json:"end"`
}

type RouteResponse struct {
	Seq           uint64               `json:"seq"`
	CommittedAt   time.Time            `json:"committed_at"`
	Legs          []LegResponse        `json:"legs"`
	WaypointOrder []int                `json:"waypoint_order"`
	Stops         []domain.Coordinates `json:"stops"`
}

type SessionResponse struct {
	SessionID  string                   `json:"session_id"`
	Selectable []PassengerResponse      `json:"selectable"`
	Selected   []PassengerResponse      `json:"selected"`
	Route      *RouteResponse           `json:"route"`
	Metrics    []domain.PassengerMetric `json:"metrics"`
	Totals     domain.RouteTotals       `json:"totals"`
	LastError  string                   `json:"last_error,omitempty"`
	Pending    bool                     `json:"pending"`
}

func Session(s services.SessionSnapshot) SessionResponse {
	res := SessionResponse{
		SessionID:  s.ID,
		Selectable: Passengers(s.Selectable),
		Selected:   Passengers(s.Selected),
		Metrics:    s.Metrics,
		Totals:     s.Totals,
		LastError:  s.LastError,
		Pending:    s.Pending,
	}
	if res.Metrics == nil {
		res.Metrics = []domain.PassengerMetric{}
	}

	if s.Route != nil && s.Route.Result != nil {
		legs := make([]LegResponse, 0, len(s.Route.Result.Legs))
		for _, l := range s.Route.Result.Legs {
			legs = append(legs, LegResponse{
				DistanceText:    l.Distance.Text,
				DistanceMeters:  l.Distance.Value,
				DurationText:    l.Duration.Text,
				DurationSeconds: l.Duration.Value,
				Start:           l.StartLocation,
				End:             l.EndLocation,
			})
		}
		res.Route = &RouteResponse{
			Seq:           s.Route.Seq,
			CommittedAt:   s.Route.CommittedAt,
			Legs:          legs,
			WaypointOrder: s.Route.Result.WaypointOrder,
			Stops:         s.Route.OrderedLocations,
		}
	}

	return res
}
