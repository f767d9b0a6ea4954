package services

import (
	"testing"
	"trip-route-resolver/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildPoolFirstSeenOrder(t *testing.T) {
	rows := []domain.TripRow{
		{TripCode: "t1", Source: "Lagos", Destination: "Abuja"},
		{TripCode: "t2", Source: "Lagos", Destination: "Kano"},
		{TripCode: "t3", Source: "Kano", Destination: "Lagos"},
	}

	pool := BuildPool(rows)

	names := make([]string, 0, pool.Len())
	for _, l := range pool.Locations() {
		names = append(names, l.Name)
		assert.False(t, l.Resolved())
	}
	assert.Equal(t, []string{"Lagos", "Abuja", "Kano"}, names)
}

func TestBuildPoolSizeEqualsDistinctNormalizedNames(t *testing.T) {
	raw := []domain.TripRow{
		{TripCode: "a", Source: "Lagos!", Destination: "LAGOS"},
		{TripCode: "b", Source: "lagos.", Destination: "Abuja?"},
		{TripCode: "c", Source: "abuja", Destination: "Port  Harcourt"},
		{TripCode: "d", Source: "port-harcourt", Destination: "Kano"},
		{TripCode: "e", Source: "", Destination: "!!"},
	}

	rows := PrepareTrips(raw, zap.NewNop())
	pool := BuildPool(rows)

	distinct := map[string]struct{}{}
	for _, r := range rows {
		distinct[r.Source] = struct{}{}
		distinct[r.Destination] = struct{}{}
	}
	assert.Equal(t, len(distinct), pool.Len())

	for _, r := range rows {
		_, ok := pool.Get(r.Source)
		require.True(t, ok, "missing %q", r.Source)
		_, ok = pool.Get(r.Destination)
		require.True(t, ok, "missing %q", r.Destination)
	}
}

func TestBuildPoolEmpty(t *testing.T) {
	assert.Equal(t, 0, BuildPool(nil).Len())
}
