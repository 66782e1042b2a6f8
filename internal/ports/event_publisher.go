package ports

import (
	"context"
	"time"
)

// Published after a route has been committed for a session.
type RouteCommittedEvent struct {
	SessionID            string    `json:"session_id"`
	Seq                  uint64    `json:"seq"`
	PassengerIDs         []string  `json:"passenger_ids"`
	TotalDistanceMeters  int       `json:"total_distance_meters"`
	TotalDurationSeconds int       `json:"total_duration_seconds"`
	CommittedAt          time.Time `json:"committed_at"`
}

type EventPublisher interface {
	PublishRouteCommitted(ctx context.Context, evt RouteCommittedEvent) error
}
