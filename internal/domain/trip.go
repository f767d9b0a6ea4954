package domain

// A single requested source -> destination movement.
// TripCode is lowercased and the location names are normalized once at load
// time; rows are treated as immutable afterwards.
type TripRow struct {
	TripCode    string
	Source      string
	Destination string
}
