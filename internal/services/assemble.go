package services

import (
	"errors"
	"trip-route-resolver/internal/domain"
)

// ErrNoRoutesResolved means no trip produced a route; nothing should be emitted.
var ErrNoRoutesResolved = errors.New("no route information resolved")

// AssembleOutput joins rows with their routes by trip code, in row order.
// Rows without a route are left out of the records and their trip codes are
// returned as skipped.
func AssembleOutput(rows []domain.TripRow, routes []domain.RouteResult) ([]domain.OutputRecord, []string, error) {
	if len(routes) == 0 {
		return nil, nil, ErrNoRoutesResolved
	}

	byTrip := make(map[string]domain.RouteResult, len(routes))
	for _, r := range routes {
		byTrip[r.TripCode] = r
	}

	records := make([]domain.OutputRecord, 0, len(routes))
	skipped := make([]string, 0)
	for _, row := range rows {
		route, ok := byTrip[row.TripCode]
		if !ok {
			skipped = append(skipped, row.TripCode)
			continue
		}

		records = append(records, domain.OutputRecord{
			TripCode:          row.TripCode,
			Length:            domain.FormatDistance(route.LengthKm),
			Time:              domain.FormatDuration(route.DurationSeconds),
			Source:            row.Source,
			SourceCoords:      domain.FormatCoords(route.Source),
			Destination:       row.Destination,
			DestinationCoords: domain.FormatCoords(route.Destination),
		})
	}

	return records, skipped, nil
}
