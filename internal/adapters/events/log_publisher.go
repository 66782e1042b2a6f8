package events

import (
	"context"

	"carpool-route-service/internal/ports"

	"go.uber.org/zap"
)

// LogPublisher writes route events to the log. It stands in for the broker
// when AMQP_URL is unset.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishRouteCommitted(_ context.Context, evt ports.RouteCommittedEvent) error {
	p.log.Info("route committed",
		zap.String("session_id", evt.SessionID),
		zap.Uint64("seq", evt.Seq),
		zap.Strings("passenger_ids", evt.PassengerIDs),
		zap.Int("total_distance_meters", evt.TotalDistanceMeters),
		zap.Int("total_duration_seconds", evt.TotalDurationSeconds),
	)
	return nil
}
