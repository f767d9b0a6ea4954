package domain

import "fmt"

// Coordinate and display address returned by a geocoding service.
type GeocodeResult struct {
	Coords  Coordinates
	Address string
}

// A uniquely named place. Address and Coords stay empty until the location
// has been geocoded.
type Location struct {
	Name    string
	Address string
	Coords  *Coordinates
}

// Resolved reports whether the location carries coordinates.
func (l *Location) Resolved() bool { return l.Coords != nil }

// Resolve records a geocoding result. A location is resolved at most once.
func (l *Location) Resolve(r GeocodeResult) error {
	if l.Coords != nil {
		return fmt.Errorf("resolve location %q: already resolved", l.Name)
	}

	c := r.Coords
	l.Coords = &c
	l.Address = r.Address
	return nil
}

// Pool is the deduplicated, insertion-ordered set of locations referenced by
// a trip table. Membership and lookup go through a name index.
type Pool struct {
	locations []*Location
	index     map[string]*Location
}

func NewPool() *Pool {
	return &Pool{index: make(map[string]*Location)}
}

// Add inserts a name-only location unless one with the same name exists.
// It reports whether a new entry was created.
func (p *Pool) Add(name string) bool {
	if _, ok := p.index[name]; ok {
		return false
	}

	loc := &Location{Name: name}
	p.locations = append(p.locations, loc)
	p.index[name] = loc
	return true
}

func (p *Pool) Get(name string) (*Location, bool) {
	loc, ok := p.index[name]
	return loc, ok
}

// Locations returns the pool entries in first-seen order.
func (p *Pool) Locations() []*Location {
	out := make([]*Location, len(p.locations))
	copy(out, p.locations)
	return out
}

func (p *Pool) Len() int { return len(p.locations) }

// ResolvedCount returns how many entries carry coordinates.
func (p *Pool) ResolvedCount() int {
	n := 0
	for _, l := range p.locations {
		if l.Resolved() {
			n++
		}
	}
	return n
}
