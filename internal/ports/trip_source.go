package ports

import (
	"context"
	"trip-route-resolver/internal/domain"
)

// Port: a boundary for loading raw trip rows from a table.
type TripSource interface {
	// Retrieve all trip rows in table order, as stored (not normalized).
	ListTrips(ctx context.Context) ([]domain.TripRow, error)
}
