package ports

import (
	"context"

	"carpool-route-service/internal/domain"
)

// Port: a boundary for retrieving passenger records from a data source.
type PassengerSource interface {
	// Retrieve all passengers carrying the given status tag (e.g. "routing").
	ListPassengers(ctx context.Context, status string) ([]domain.PassengerRecord, error)
}
