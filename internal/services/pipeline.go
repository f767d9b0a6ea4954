package services

import (
	"context"
	"errors"
	"fmt"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/obs"
	"trip-route-resolver/internal/ports"

	"go.uber.org/zap"
)

// Pipeline wires the resolution stages:
//
//	PrepareTrips -> BuildPool -> ResolveLocations -> ResolveRoutes -> AssembleOutput
//
// Every stage is a plain function; Pipeline only carries the collaborators
// and options they need.
type Pipeline struct {
	Geocoder ports.Geocoder
	Router   ports.Router
	Geocode  GeocodeOptions
	Routes   RouteOptions
	Log      *zap.Logger
}

type RunStats struct {
	Trips             int `json:"trips"`
	Locations         int `json:"locations"`
	LocationsResolved int `json:"locations_resolved"`
	LocationsFailed   int `json:"locations_failed"`
	Routes            int `json:"routes"`
	Skipped           int `json:"skipped"`
}

type Result struct {
	Trips   []domain.TripRow
	Pool    *domain.Pool
	Routes  []domain.RouteResult
	Records []domain.OutputRecord
	Skipped []string
	Stats   RunStats
}

func NewPipeline(geocoder ports.Geocoder, router ports.Router, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		Geocoder: geocoder,
		Router:   router,
		Geocode:  DefaultGeocodeOptions(),
		Routes:   DefaultRouteOptions(),
		Log:      log,
	}
}

// Run resolves raw trip rows into output records. The returned Result is
// always non-nil when the collaborators are set; when no route resolved the
// error is ErrNoRoutesResolved and Records is empty.
func (p *Pipeline) Run(ctx context.Context, raw []domain.TripRow) (_ *Result, err error) {
	if p.Geocoder == nil || p.Router == nil {
		return nil, errors.New("pipeline: geocoder and router are required")
	}

	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	if id := obs.RunID(ctx); id != "" {
		log = log.With(zap.String("run_id", id))
	}
	defer obs.Time(ctx, log, "services.Pipeline.Run")(&err)

	res := &Result{}
	res.Trips = PrepareTrips(raw, log)
	res.Stats.Trips = len(res.Trips)

	res.Pool = BuildPool(res.Trips)
	res.Stats.Locations = res.Pool.Len()
	log.Info("loaded locations for processing", zap.Int("locations", res.Pool.Len()), zap.Int("trips", len(res.Trips)))

	geo := ResolveLocations(ctx, p.Geocoder, res.Pool, p.Geocode, log)
	res.Stats.LocationsResolved = geo.Resolved
	res.Stats.LocationsFailed = geo.Failed

	res.Routes = ResolveRoutes(ctx, p.Router, res.Trips, res.Pool, p.Routes, log)
	res.Stats.Routes = len(res.Routes)

	records, skipped, err := AssembleOutput(res.Trips, res.Routes)
	if err != nil {
		res.Stats.Skipped = len(res.Trips)
		res.Skipped = tripCodes(res.Trips)
		return res, fmt.Errorf("pipeline: %w", err)
	}

	res.Records = records
	res.Skipped = skipped
	res.Stats.Skipped = len(skipped)
	if len(skipped) > 0 {
		log.Warn("trips without route left out of output", zap.Strings("trip_codes", skipped))
	}

	return res, nil
}

func tripCodes(rows []domain.TripRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.TripCode)
	}
	return out
}
