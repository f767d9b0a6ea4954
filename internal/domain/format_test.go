package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatDuration(0))
	assert.Equal(t, "00:00:59", FormatDuration(59.9))
	assert.Equal(t, "01:01:01", FormatDuration(3661))
	assert.Equal(t, "25:00:00", FormatDuration(90000))
	assert.Equal(t, "00:00:00", FormatDuration(-5))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "12.5KM", FormatDistance(12.5))
	assert.Equal(t, "0KM", FormatDistance(0))
	assert.Equal(t, "761.337KM", FormatDistance(761.337))
}

func TestFormatCoords(t *testing.T) {
	assert.Equal(t, "6.4550407, 3.3941795", FormatCoords(Coordinates{Lat: 6.4550407, Lon: 3.3941795}))
	assert.Equal(t, "-1.5, 0", FormatCoords(Coordinates{Lat: -1.5, Lon: 0}))
}

func TestOutputRecordValuesMatchColumns(t *testing.T) {
	r := OutputRecord{TripCode: "t1", Length: "1KM", Time: "00:01:00", Source: "A", SourceCoords: "1, 2", Destination: "B", DestinationCoords: "3, 4"}
	assert.Len(t, r.Values(), len(OutputColumns))
	assert.Equal(t, "t1", r.Values()[0])
	assert.Equal(t, "3, 4", r.Values()[6])
}
