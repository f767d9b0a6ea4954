package services

import (
	"context"
	"testing"
	"time"
	"trip-route-resolver/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChunkLocations(t *testing.T) {
	locs := make([]*domain.Location, 5)
	for i := range locs {
		locs[i] = &domain.Location{Name: string(rune('A' + i))}
	}

	chunks := chunkLocations(locs, 2)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 2)
	assert.Len(t, chunks[2], 1)
	assert.Equal(t, "E", chunks[2][0].Name)
}

func TestResolveLocationsGeocodesEachNameOnce(t *testing.T) {
	rows := []domain.TripRow{
		{TripCode: "t1", Source: "Lagos", Destination: "Abuja"},
		{TripCode: "t2", Source: "Lagos", Destination: "Kano"},
		{TripCode: "t3", Source: "Kano", Destination: "Lagos"},
	}
	pool := BuildPool(rows)
	geo := nigeriaGeocoder()

	stats := ResolveLocations(context.Background(), geo, pool, fastGeocode(), zap.NewNop())

	assert.Equal(t, ResolveStats{Total: 3, Resolved: 3}, stats)
	assert.Equal(t, 1, geo.Calls("Lagos"))
	assert.Equal(t, 1, geo.Calls("Abuja"))
	assert.Equal(t, 1, geo.Calls("Kano"))
	assert.Equal(t, 3, geo.TotalCalls())

	lagos, ok := pool.Get("Lagos")
	require.True(t, ok)
	require.True(t, lagos.Resolved())
	assert.Equal(t, 6.455, lagos.Coords.Lat)
	assert.Equal(t, "Lagos, Nigeria", lagos.Address)
}

func TestResolveLocationsToleratesFailures(t *testing.T) {
	pool := domain.NewPool()
	for _, n := range []string{"Lagos", "Abuja", "Atlantis", "Kano"} {
		pool.Add(n)
	}
	geo := nigeriaGeocoder().Fail("Abuja", errUpstream)

	stats := ResolveLocations(context.Background(), geo, pool, fastGeocode(), zap.NewNop())

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Resolved)
	assert.Equal(t, 2, stats.Failed)

	for name, want := range map[string]bool{"Lagos": true, "Abuja": false, "Atlantis": false, "Kano": true} {
		loc, ok := pool.Get(name)
		require.True(t, ok)
		assert.Equal(t, want, loc.Resolved(), name)
	}
}

func TestResolveLocationsSkipsEmptyName(t *testing.T) {
	pool := domain.NewPool()
	pool.Add("")
	pool.Add("Lagos")
	geo := nigeriaGeocoder()

	stats := ResolveLocations(context.Background(), geo, pool, fastGeocode(), zap.NewNop())

	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, geo.Calls(""))
}

func TestResolveLocationsCapsConcurrency(t *testing.T) {
	pool := domain.NewPool()
	for _, n := range []string{"Lagos", "Abuja", "Kano", "Ibadan", "Port harcourt"} {
		pool.Add(n)
	}
	geo := &gaugeGeocoder{inner: nigeriaGeocoder(), hold: 20 * time.Millisecond}

	opts := GeocodeOptions{ChunkSize: 1, Delay: 0, MaxConcurrent: 2}
	stats := ResolveLocations(context.Background(), geo, pool, opts, zap.NewNop())

	assert.Equal(t, 5, stats.Resolved)
	assert.LessOrEqual(t, geo.Peak(), int32(2))
}

func TestResolveLocationsSpacesEveryCall(t *testing.T) {
	pool := domain.NewPool()
	for _, n := range []string{"Lagos", "Abuja", "Kano", "Ibadan", "Port harcourt", "Atlantis"} {
		pool.Add(n)
	}
	geo := &stampGeocoder{inner: nigeriaGeocoder()}

	delay := 30 * time.Millisecond
	opts := GeocodeOptions{ChunkSize: 2, Delay: delay, MaxConcurrent: 1}

	start := time.Now()
	stats := ResolveLocations(context.Background(), geo, pool, opts, zap.NewNop())

	assert.Equal(t, 5, stats.Resolved)
	assert.Equal(t, 1, stats.Failed)
	assert.GreaterOrEqual(t, time.Since(start), 6*delay)

	gaps := geo.Gaps()
	require.Len(t, gaps, 5)
	for i, gap := range gaps {
		assert.GreaterOrEqual(t, gap, delay, "gap %d", i)
	}
}

func TestResolveLocationsPhaseTimeout(t *testing.T) {
	pool := domain.NewPool()
	pool.Add("Lagos")
	pool.Add("Abuja")
	geo := nigeriaGeocoder()

	opts := GeocodeOptions{ChunkSize: 2, Delay: time.Second, MaxConcurrent: 2, PhaseTimeout: 20 * time.Millisecond}
	stats := ResolveLocations(context.Background(), geo, pool, opts, zap.NewNop())

	assert.Equal(t, 0, stats.Resolved)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 0, geo.TotalCalls())
}

func TestResolveLocationsEmptyPool(t *testing.T) {
	geo := nigeriaGeocoder()
	stats := ResolveLocations(context.Background(), geo, domain.NewPool(), fastGeocode(), zap.NewNop())
	assert.Equal(t, ResolveStats{}, stats)
	assert.Equal(t, 0, geo.TotalCalls())
}
