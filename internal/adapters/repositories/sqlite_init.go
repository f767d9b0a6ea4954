package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-route-resolver/internal/domain"
)

// Initialize the trips schema. The DDL is valid for both SQLite and PostgreSQL.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		position INTEGER NOT NULL,
		trip_code TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		destination TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_position
	ON trips(position);
	`

	statements := []string{
		createTripsQuery,
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

// validateSeed checks rows before they are written and returns them trimmed.
// Table position follows slice order.
func validateSeed(rows []domain.TripRow) ([]domain.TripRow, error) {
	out := make([]domain.TripRow, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		code := strings.TrimSpace(r.TripCode)
		if code == "" {
			return nil, fmt.Errorf("seed trips: row %d: trip_code cannot be empty", i+1)
		}
		if _, ok := seen[code]; ok {
			return nil, fmt.Errorf("seed trips: row %d: duplicate trip_code %q", i+1, code)
		}
		seen[code] = struct{}{}

		out = append(out, domain.TripRow{
			TripCode:    code,
			Source:      strings.TrimSpace(r.Source),
			Destination: strings.TrimSpace(r.Destination),
		})
	}
	return out, nil
}

// seedWith writes rows inside one transaction using the given upsert statement.
func seedWith(ctx context.Context, db *sql.DB, query string, rows []domain.TripRow) error {
	if db == nil {
		return errors.New("seed trips: DB is nil")
	}

	valid, err := validateSeed(rows)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed trips: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed trips: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range valid {
		if _, err := stmt.ExecContext(ctx, i+1, r.TripCode, r.Source, r.Destination); err != nil {
			return fmt.Errorf("seed trips: insert trip_code=%q: %w", r.TripCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed trips: commit tx: %w", err)
	}

	return nil
}

// scanTrips reads (trip_code, source, destination) rows.
func scanTrips(rows *sql.Rows) ([]domain.TripRow, error) {
	trips := make([]domain.TripRow, 0, 64)
	for rows.Next() {
		var t domain.TripRow
		if err := rows.Scan(&t.TripCode, &t.Source, &t.Destination); err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		trips = append(trips, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}
