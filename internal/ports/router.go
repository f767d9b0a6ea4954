package ports

import (
	"context"
	"errors"
	"trip-route-resolver/internal/domain"
)

// ErrNoRoute is returned when the routing service finds no route between two points.
var ErrNoRoute = errors.New("no route found")

// Contract for computing route attributes between two coordinates.
type Router interface {
	// Return length, duration and geometry of the best route for a trip.
	Route(ctx context.Context, tripCode string, source, destination domain.Coordinates) (domain.RouteResult, error)
}
