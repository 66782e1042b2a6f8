package services

import (
	"context"
	"fmt"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/ports"

	"go.uber.org/zap"
)

// LoadSelectablePassengers fetches passengers awaiting routing and keeps
// only those with usable home and work coordinates. Records that fail
// validation are logged and dropped; they never reach the caller.
func LoadSelectablePassengers(
	ctx context.Context,
	source ports.PassengerSource,
	status string,
	log *zap.Logger,
) ([]domain.Passenger, error) {
	records, err := source.ListPassengers(ctx, status)
	if err != nil {
		return nil, &domain.DataFetchFailure{Err: fmt.Errorf("list passengers status=%q: %w", status, err)}
	}

	out := make([]domain.Passenger, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		p, err := rec.ToPassenger()
		if err != nil {
			log.Warn("excluding passenger", zap.String("passenger_id", rec.ID), zap.Error(err))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			log.Warn("excluding duplicate passenger", zap.String("passenger_id", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	return out, nil
}
