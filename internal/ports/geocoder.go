package ports

import (
	"context"
	"errors"
	"trip-route-resolver/internal/domain"
)

// ErrLocationNotFound is returned when the geocoding service has no match.
var ErrLocationNotFound = errors.New("location not found")

// Contract for turning a free-text location name into coordinates.
type Geocoder interface {
	// Return the single best match for name.
	Geocode(ctx context.Context, name string) (domain.GeocodeResult, error)
}
