package geocoding

import (
	"context"
	"fmt"
	"sync"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/ports"
)

// MockGeocoder serves fixed results and records how often each name was
// requested. Names without a result fail with ports.ErrLocationNotFound.
type MockGeocoder struct {
	mu      sync.Mutex
	results map[string]domain.GeocodeResult
	failing map[string]error
	calls   map[string]int
}

func NewMockGeocoder(results map[string]domain.GeocodeResult) *MockGeocoder {
	return &MockGeocoder{
		results: results,
		failing: make(map[string]error),
		calls:   make(map[string]int),
	}
}

// Fail makes every lookup of name return err.
func (m *MockGeocoder) Fail(name string, err error) *MockGeocoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[name] = err
	return m
}

func (m *MockGeocoder) Geocode(ctx context.Context, name string) (domain.GeocodeResult, error) {
	m.mu.Lock()
	m.calls[name]++
	failErr := m.failing[name]
	r, ok := m.results[name]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.GeocodeResult{}, err
	}
	if failErr != nil {
		return domain.GeocodeResult{}, failErr
	}
	if !ok {
		return domain.GeocodeResult{}, fmt.Errorf("mock geocode %q: %w", name, ports.ErrLocationNotFound)
	}

	return r, nil
}

// Calls returns how many times name was requested.
func (m *MockGeocoder) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// TotalCalls returns the number of Geocode invocations.
func (m *MockGeocoder) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}
