package services

import (
	"trip-route-resolver/internal/domain"

	"go.uber.org/zap"
)

// PrepareTrips normalizes raw rows once: trip codes are trimmed and
// lowercased, location names go through domain.NormalizeName. Rows without a
// trip code are dropped, and only the first row per trip code is kept.
func PrepareTrips(raw []domain.TripRow, log *zap.Logger) []domain.TripRow {
	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.TripRow, 0, len(raw))

	for i, r := range raw {
		code := domain.NormalizeTripCode(r.TripCode)
		if code == "" {
			log.Warn("dropping trip without trip code", zap.Int("row", i+1))
			continue
		}
		if _, ok := seen[code]; ok {
			log.Warn("dropping duplicate trip code", zap.Int("row", i+1), zap.String("trip_code", code))
			continue
		}
		seen[code] = struct{}{}

		out = append(out, domain.TripRow{
			TripCode:    code,
			Source:      domain.NormalizeName(r.Source),
			Destination: domain.NormalizeName(r.Destination),
		})
	}

	return out
}
