package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/platform/obs"

	"go.uber.org/zap"
)

// Postgres-backed implementation of the PassengerSource port.
type PostgresPassengerRepository struct {
	DB  *sql.DB
	log *zap.Logger
}

func NewPostgresPassengerRepository(db *sql.DB, log *zap.Logger) *PostgresPassengerRepository {
	return &PostgresPassengerRepository{DB: db, log: log}
}

// ListPassengers returns passengers with the given status, or all when
// status is empty. Missing coordinates come back as nil.
func (r *PostgresPassengerRepository) ListPassengers(
	ctx context.Context,
	status string,
) (_ []domain.PassengerRecord, err error) {
	defer obs.Time(ctx, r.log, "passengers.postgres.List")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres passenger repository: DB is nil")
	}

	query := `
	SELECT
		id, name,
		home_lat, home_lng, home_address,
		work_lat, work_lng, work_address
	FROM passengers
	WHERE $1 = '' OR status = $1
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list passengers: query passengers table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PassengerRecord, 0, 64)
	for rows.Next() {
		var rec domain.PassengerRecord
		var home, work addressRow
		err := rows.Scan(
			&rec.ID, &rec.Name,
			&home.lat, &home.lng, &home.address,
			&work.lat, &work.lng, &work.address,
		)
		if err != nil {
			return nil, fmt.Errorf("list passengers: scan row: %w", err)
		}
		rec.HomeAddress = home.toDomain()
		rec.WorkAddress = work.toDomain()
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list passengers: row iteration: %w", err)
	}

	return out, nil
}

func (a addressRow) toDomain() *domain.AddressRecord {
	rec := &domain.AddressRecord{Address: a.address}
	if a.lat.Valid {
		lat := a.lat.Float64
		rec.Latitude = &lat
	}
	if a.lng.Valid {
		lng := a.lng.Float64
		rec.Longitude = &lng
	}
	return rec
}
