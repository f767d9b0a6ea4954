package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-route-resolver/internal/domain"
)

// SQLTripRepository is the PostgreSQL implementation of the TripSource port.
type SQLTripRepository struct{ DB *sql.DB }

func NewSQLTripRepository(db *sql.DB) *SQLTripRepository {
	return &SQLTripRepository{DB: db}
}

// Return all trips in table position order.
func (s *SQLTripRepository) ListTrips(ctx context.Context) ([]domain.TripRow, error) {
	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	q := `
	SELECT trip_code, source, destination
	FROM trips
	ORDER BY position, trip_code;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}

// Store trips, updating rows that share a trip code.
func (s *SQLTripRepository) SeedTrips(ctx context.Context, trips []domain.TripRow) error {
	return seedWith(ctx, s.DB, `
	INSERT INTO trips (position, trip_code, source, destination)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (trip_code) DO UPDATE
	SET position = EXCLUDED.position,
		source = EXCLUDED.source,
		destination = EXCLUDED.destination;
	`, trips)
}
