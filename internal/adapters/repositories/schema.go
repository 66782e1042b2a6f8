package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"carpool-route-service/internal/adapters/passengers"
)

// InitSchema creates the Postgres tables used by the service.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPassengersQuery := `
	CREATE TABLE IF NOT EXISTS passengers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'routing',
		home_lat DOUBLE PRECISION,
		home_lng DOUBLE PRECISION,
		home_address TEXT NOT NULL DEFAULT '',
		work_lat DOUBLE PRECISION,
		work_lng DOUBLE PRECISION,
		work_address TEXT NOT NULL DEFAULT ''
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		request_key TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_passengers_status
	ON passengers(status, id);
	`

	statements := []string{
		createPassengersQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// LoadSeedFile reads passenger records in the passenger service's wire format.
// Records are validated only for a non-empty id; coordinates may be missing,
// exactly as upstream data can be.
func LoadSeedFile(jsonPath string) ([]passengers.Record, error) {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed passengers: read %q: %w", jsonPath, err)
	}

	var data []passengers.Record
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("seed passengers: parse json: %w", err)
	}

	for i := range data {
		data[i].ID = strings.TrimSpace(data[i].ID)
		if data[i].ID == "" {
			return nil, fmt.Errorf("seed passengers: item at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(data[i].Status) == "" {
			data[i].Status = "routing"
		}
	}
	return data, nil
}

// SeedFromJSON upserts the passengers in jsonPath.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	rows, err := LoadSeedFile(jsonPath)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed passengers: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO passengers (
		id, name, status,
		home_lat, home_lng, home_address,
		work_lat, work_lng, work_address
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		status = EXCLUDED.status,
		home_lat = EXCLUDED.home_lat,
		home_lng = EXCLUDED.home_lng,
		home_address = EXCLUDED.home_address,
		work_lat = EXCLUDED.work_lat,
		work_lng = EXCLUDED.work_lng,
		work_address = EXCLUDED.work_address;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed passengers: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		home := addressColumns(p.HomeAddress)
		work := addressColumns(p.WorkAddress)
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Status,
			home.lat, home.lng, home.address,
			work.lat, work.lng, work.address,
		); err != nil {
			return 0, fmt.Errorf("seed passengers: insert id=%q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed passengers: commit tx: %w", err)
	}

	return len(rows), nil
}

type addressRow struct {
	lat, lng sql.NullFloat64
	address  string
}

func addressColumns(a *passengers.Address) addressRow {
	if a == nil {
		return addressRow{}
	}
	row := addressRow{address: a.Address}
	if a.Latitude.Value != nil {
		row.lat = sql.NullFloat64{Float64: *a.Latitude.Value, Valid: true}
	}
	if a.Longitude.Value != nil {
		row.lng = sql.NullFloat64{Float64: *a.Longitude.Value, Valid: true}
	}
	return row
}
