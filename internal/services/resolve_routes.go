package services

import (
	"context"
	"time"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/obs"
	"trip-route-resolver/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RouteOptions controls the per-trip routing fan-out.
type RouteOptions struct {
	// Wait before every routing call.
	Delay time.Duration
	// Cap on simultaneous routing calls.
	MaxConcurrent int
	// Deadline for the whole phase; zero means none.
	PhaseTimeout time.Duration
}

func DefaultRouteOptions() RouteOptions {
	return RouteOptions{Delay: 150 * time.Millisecond, MaxConcurrent: 4}
}

func (o RouteOptions) normalized() RouteOptions {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultRouteOptions().MaxConcurrent
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	return o
}

type routeJob struct {
	row         domain.TripRow
	source      domain.Coordinates
	destination domain.Coordinates
}

// ResolveRoutes computes one route per row whose endpoints are both resolved
// in pool. Rows with a missing or unresolved endpoint are skipped, and routing
// failures only drop the affected trip. Results follow input row order.
func ResolveRoutes(
	ctx context.Context,
	router ports.Router,
	rows []domain.TripRow,
	pool *domain.Pool,
	opts RouteOptions,
	log *zap.Logger,
) []domain.RouteResult {
	var err error
	defer obs.Time(ctx, log, "services.ResolveRoutes")(&err)

	if pool.ResolvedCount() == 0 {
		log.Warn("no resolved locations, skipping route resolution")
		return nil
	}

	opts = opts.normalized()

	jobs := make([]routeJob, 0, len(rows))
	for _, r := range rows {
		src, ok := resolvedCoords(pool, r.Source)
		if !ok {
			log.Debug("skipping trip with unresolved source", zap.String("trip_code", r.TripCode), zap.String("source", r.Source))
			continue
		}
		dst, ok := resolvedCoords(pool, r.Destination)
		if !ok {
			log.Debug("skipping trip with unresolved destination", zap.String("trip_code", r.TripCode), zap.String("destination", r.Destination))
			continue
		}
		jobs = append(jobs, routeJob{row: r, source: src, destination: dst})
	}

	if len(jobs) == 0 {
		log.Warn("no trip has both endpoints resolved")
		return nil
	}

	ctx, cancel := withPhaseTimeout(ctx, opts.PhaseTimeout)
	defer cancel()

	log.Info("started resolving routes",
		zap.Int("trips", len(jobs)),
		zap.Int("max_concurrent", opts.MaxConcurrent),
	)

	slots := make([]*domain.RouteResult, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(opts.MaxConcurrent)
	for i, job := range jobs {
		g.Go(func() error {
			if perr := pause(ctx, opts.Delay); perr != nil {
				errs[i] = perr
				return nil
			}

			res, rerr := router.Route(ctx, job.row.TripCode, job.source, job.destination)
			if rerr != nil {
				errs[i] = rerr
				return nil
			}
			slots[i] = &res
			return nil
		})
	}
	_ = g.Wait()

	routes := make([]domain.RouteResult, 0, len(jobs))
	for i, job := range jobs {
		if errs[i] != nil {
			log.Warn("failed to resolve route", zap.String("trip_code", job.row.TripCode), zap.Error(errs[i]))
			continue
		}

		r := *slots[i]
		routes = append(routes, r)
		log.Info("resolved route",
			zap.String("trip_code", r.TripCode),
			zap.String("time", domain.FormatDuration(r.DurationSeconds)),
			zap.String("distance", domain.FormatDistance(r.LengthKm)),
		)
	}

	log.Info("completed resolving routes",
		zap.Int("resolved", len(routes)),
		zap.Int("failed", len(jobs)-len(routes)),
	)

	if len(routes) == 0 {
		err = ErrNoRoutesResolved
	}
	return routes
}

func resolvedCoords(pool *domain.Pool, name string) (domain.Coordinates, bool) {
	loc, ok := pool.Get(name)
	if !ok || !loc.Resolved() {
		return domain.Coordinates{}, false
	}
	return *loc.Coords, true
}
