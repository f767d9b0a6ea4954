package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
	"trip-route-resolver/internal/adapters/geocoding"
	"trip-route-resolver/internal/adapters/routing"
	"trip-route-resolver/internal/domain"
)

var errUpstream = errors.New("upstream unavailable")

func nigeriaGeocoder() *geocoding.MockGeocoder {
	return geocoding.NewMockGeocoder(map[string]domain.GeocodeResult{
		"Lagos":         {Coords: domain.Coordinates{Lat: 6.455, Lon: 3.394}, Address: "Lagos, Nigeria"},
		"Abuja":         {Coords: domain.Coordinates{Lat: 9.057, Lon: 7.489}, Address: "Abuja, Nigeria"},
		"Kano":          {Coords: domain.Coordinates{Lat: 12.0, Lon: 8.517}, Address: "Kano, Nigeria"},
		"Ibadan":        {Coords: domain.Coordinates{Lat: 7.377, Lon: 3.947}, Address: "Ibadan, Nigeria"},
		"Port harcourt": {Coords: domain.Coordinates{Lat: 4.816, Lon: 7.05}, Address: "Port Harcourt, Nigeria"},
	})
}

func fastGeocode() GeocodeOptions {
	return GeocodeOptions{ChunkSize: 2, Delay: time.Millisecond, MaxConcurrent: 3}
}

func fastRoutes() RouteOptions {
	return RouteOptions{Delay: time.Millisecond, MaxConcurrent: 3}
}

func legsFor(codes ...string) map[string]routing.MockLeg {
	out := make(map[string]routing.MockLeg, len(codes))
	for i, c := range codes {
		out[c] = routing.MockLeg{Meters: float64(1000 * (i + 1)), Seconds: float64(600 * (i + 1))}
	}
	return out
}

// gaugeGeocoder records the peak number of in-flight calls.
type gaugeGeocoder struct {
	inner    *geocoding.MockGeocoder
	hold     time.Duration
	inFlight atomic.Int32
	mu       sync.Mutex
	peak     int32
}

func (g *gaugeGeocoder) Geocode(ctx context.Context, name string) (domain.GeocodeResult, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)

	g.mu.Lock()
	if n > g.peak {
		g.peak = n
	}
	g.mu.Unlock()

	time.Sleep(g.hold)
	return g.inner.Geocode(ctx, name)
}

func (g *gaugeGeocoder) Peak() int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.peak
}

// shuffledRouter finishes earlier trips last so completion order differs
// from input order.
type shuffledRouter struct {
	inner *routing.MockRouter
	order map[string]int
}

func (s *shuffledRouter) Route(ctx context.Context, tripCode string, src, dst domain.Coordinates) (domain.RouteResult, error) {
	time.Sleep(time.Duration(len(s.order)-s.order[tripCode]) * 3 * time.Millisecond)
	return s.inner.Route(ctx, tripCode, src, dst)
}

// stampGeocoder records when each call reached the geocoder.
type stampGeocoder struct {
	inner *geocoding.MockGeocoder
	mu    sync.Mutex
	at    []time.Time
}

func (s *stampGeocoder) Geocode(ctx context.Context, name string) (domain.GeocodeResult, error) {
	s.mu.Lock()
	s.at = append(s.at, time.Now())
	s.mu.Unlock()
	return s.inner.Geocode(ctx, name)
}

func (s *stampGeocoder) Gaps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	gaps := make([]time.Duration, 0, len(s.at))
	for i := 1; i < len(s.at); i++ {
		gaps = append(gaps, s.at[i].Sub(s.at[i-1]))
	}
	return gaps
}
