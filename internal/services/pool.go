package services

import "trip-route-resolver/internal/domain"

// BuildPool collects the distinct location names referenced by rows, source
// before destination, in first-seen order.
func BuildPool(rows []domain.TripRow) *domain.Pool {
	pool := domain.NewPool()
	for _, r := range rows {
		pool.Add(r.Source)
		pool.Add(r.Destination)
	}
	return pool
}
