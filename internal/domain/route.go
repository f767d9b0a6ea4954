package domain

// Route attributes computed for one trip whose endpoints were both geocoded.
// LengthKm and DurationSeconds come straight from the routing service summary;
// Shape is the decoded route geometry and may be empty.
type RouteResult struct {
	TripCode        string
	LengthKm        float64
	DurationSeconds float64
	Source          Coordinates
	Destination     Coordinates
	Shape           []Coordinates
}

// A resolved trip rendered with human readable labels, ready for emission.
type OutputRecord struct {
	TripCode          string
	Length            string
	Time              string
	Source            string
	SourceCoords      string
	Destination       string
	DestinationCoords string
}

// OutputColumns is the header of the emitted table, in column order.
var OutputColumns = []string{
	"trip_code",
	"length",
	"time",
	"source",
	"source_coords",
	"destination",
	"destination_coords",
}

// Values returns the record fields in OutputColumns order.
func (r OutputRecord) Values() []string {
	return []string{
		r.TripCode,
		r.Length,
		r.Time,
		r.Source,
		r.SourceCoords,
		r.Destination,
		r.DestinationCoords,
	}
}
