package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-route-resolver/internal/domain"
)

// SQLite-backed implementation of the TripSource port.
type SqliteTripRepository struct{ DB *sql.DB }

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db}
}

// Return all trips in table position order.
func (s *SqliteTripRepository) ListTrips(ctx context.Context) ([]domain.TripRow, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	SELECT
		trip_code,
		source,
		destination
	FROM trips
	ORDER BY position, trip_code;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	return scanTrips(rows)
}

// Store trips, replacing rows that share a trip code.
func (s *SqliteTripRepository) SeedTrips(ctx context.Context, trips []domain.TripRow) error {
	return seedWith(ctx, s.DB, `
	INSERT OR REPLACE INTO trips (
		position,
		trip_code,
		source,
		destination
	)
	VALUES (?, ?, ?, ?);
	`, trips)
}
