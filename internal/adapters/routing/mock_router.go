package routing

import (
	"context"
	"fmt"
	"sync"
	"trip-route-resolver/internal/domain"
)

type MockLeg struct {
	Meters  float64
	Seconds float64
}

// MockRouter computes routes from a fixed table keyed by trip code.
// Unknown trip codes and codes registered with Fail return an error.
type MockRouter struct {
	mu      sync.Mutex
	legs    map[string]MockLeg
	failing map[string]error
	calls   map[string]int
}

func NewMockRouter(legs map[string]MockLeg) *MockRouter {
	return &MockRouter{
		legs:    legs,
		failing: make(map[string]error),
		calls:   make(map[string]int),
	}
}

// Fail makes every route request for tripCode return err.
func (m *MockRouter) Fail(tripCode string, err error) *MockRouter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[tripCode] = err
	return m
}

func (m *MockRouter) Route(
	ctx context.Context,
	tripCode string,
	source domain.Coordinates,
	destination domain.Coordinates,
) (domain.RouteResult, error) {
	m.mu.Lock()
	m.calls[tripCode]++
	failErr := m.failing[tripCode]
	leg, ok := m.legs[tripCode]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.RouteResult{}, err
	}
	if failErr != nil {
		return domain.RouteResult{}, failErr
	}
	if !ok {
		return domain.RouteResult{}, fmt.Errorf("missing leg for trip %q", tripCode)
	}

	return domain.RouteResult{
		TripCode:        tripCode,
		LengthKm:        leg.Meters / 1000,
		DurationSeconds: leg.Seconds,
		Source:          source,
		Destination:     destination,
	}, nil
}

// Calls returns how many times tripCode was routed.
func (m *MockRouter) Calls(tripCode string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[tripCode]
}
