package services

import (
	"context"
	"errors"
	"time"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/obs"
	"trip-route-resolver/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errEmptyName = errors.New("location name is empty")

// GeocodeOptions controls how the pool is fanned out to the geocoder.
type GeocodeOptions struct {
	// Locations per chunk.
	ChunkSize int
	// Wait before every geocoding call.
	Delay time.Duration
	// Cap on simultaneous geocoding calls across all chunks.
	MaxConcurrent int
	// Deadline for the whole phase; zero means none.
	PhaseTimeout time.Duration
}

func DefaultGeocodeOptions() GeocodeOptions {
	return GeocodeOptions{ChunkSize: 2, Delay: 150 * time.Millisecond, MaxConcurrent: 4}
}

func (o GeocodeOptions) normalized() GeocodeOptions {
	d := DefaultGeocodeOptions()
	if o.ChunkSize <= 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = d.MaxConcurrent
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	return o
}

type ResolveStats struct {
	Total    int
	Resolved int
	Failed   int
}

type geocodeOutcome struct {
	result domain.GeocodeResult
	err    error
}

// ResolveLocations geocodes every unresolved pool entry and merges the
// results back into the pool.
//
// The pool is split into chunks that are dispatched in order onto one
// errgroup limited to opts.MaxConcurrent; each item holds a slot while it
// waits opts.Delay and then calls. A failed item is logged and stays
// unresolved. Workers only write their own result slot; the pool is updated
// after every worker is done.
func ResolveLocations(
	ctx context.Context,
	geocoder ports.Geocoder,
	pool *domain.Pool,
	opts GeocodeOptions,
	log *zap.Logger,
) (stats ResolveStats) {
	var err error
	defer obs.Time(ctx, log, "services.ResolveLocations")(&err)

	opts = opts.normalized()

	pending := make([]*domain.Location, 0, pool.Len())
	for _, loc := range pool.Locations() {
		if !loc.Resolved() {
			pending = append(pending, loc)
		}
	}
	stats.Total = len(pending)
	if len(pending) == 0 {
		return stats
	}

	ctx, cancel := withPhaseTimeout(ctx, opts.PhaseTimeout)
	defer cancel()

	chunks := chunkLocations(pending, opts.ChunkSize)
	log.Info("started resolving locations for coordinates",
		zap.Int("locations", len(pending)),
		zap.Int("chunks", len(chunks)),
		zap.Int("max_concurrent", opts.MaxConcurrent),
	)

	outcomes := make([]geocodeOutcome, len(pending))

	var g errgroup.Group
	g.SetLimit(opts.MaxConcurrent)
	for ci, chunk := range chunks {
		offset := ci * opts.ChunkSize
		log.Debug("dispatching chunk", zap.Int("chunk", ci), zap.Int("size", len(chunk)))
		for j, loc := range chunk {
			idx := offset + j
			name := loc.Name
			g.Go(func() error {
				outcomes[idx] = geocodeOne(ctx, geocoder, name, opts.Delay)
				return nil
			})
		}
	}
	_ = g.Wait()

	for i, loc := range pending {
		o := outcomes[i]
		if o.err != nil {
			stats.Failed++
			log.Warn("failed to resolve location", zap.String("name", loc.Name), zap.Error(o.err))
			continue
		}
		if rerr := loc.Resolve(o.result); rerr != nil {
			stats.Failed++
			log.Warn("failed to merge location", zap.String("name", loc.Name), zap.Error(rerr))
			continue
		}
		stats.Resolved++
		log.Info("resolved location",
			zap.String("name", loc.Name),
			zap.Float64("lat", loc.Coords.Lat),
			zap.Float64("lon", loc.Coords.Lon),
		)
	}

	log.Info("completed resolving locations",
		zap.Int("resolved", stats.Resolved),
		zap.Int("failed", stats.Failed),
	)

	if stats.Resolved == 0 {
		err = errors.New("no location resolved")
	}
	return stats
}

// geocodeOne runs inside a concurrency slot, so the delay spaces every call
// that reuses the slot.
func geocodeOne(
	ctx context.Context,
	geocoder ports.Geocoder,
	name string,
	delay time.Duration,
) geocodeOutcome {
	if name == "" {
		return geocodeOutcome{err: errEmptyName}
	}

	if err := pause(ctx, delay); err != nil {
		return geocodeOutcome{err: err}
	}

	r, err := geocoder.Geocode(ctx, name)
	return geocodeOutcome{result: r, err: err}
}

func chunkLocations(locs []*domain.Location, size int) [][]*domain.Location {
	chunks := make([][]*domain.Location, 0, (len(locs)+size-1)/size)
	for start := 0; start < len(locs); start += size {
		end := min(start+size, len(locs))
		chunks = append(chunks, locs[start:end])
	}
	return chunks
}
