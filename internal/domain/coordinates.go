package domain

import "strconv"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lon float64
}

// FormatCoords renders c as "lat, lon" using the shortest exact decimal form.
func FormatCoords(c Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
