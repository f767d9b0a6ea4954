package tables

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"trip-route-resolver/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadTripsCSV(t *testing.T) {
	src := "\ufeffDestination, trip_code ,source,notes\n" +
		"Abuja?,T1,Lagos!,first\n" +
		"\n" +
		"Kano,t2,Lagos\n"

	rows, err := ReadTripsCSV(context.Background(), strings.NewReader(src), ',')
	require.NoError(t, err)

	assert.Equal(t, []domain.TripRow{
		{TripCode: "T1", Source: "Lagos!", Destination: "Abuja?"},
		{TripCode: "t2", Source: "Lagos", Destination: "Kano"},
	}, rows)
}

func TestReadTripsCSVMissingColumn(t *testing.T) {
	_, err := ReadTripsCSV(context.Background(), strings.NewReader("trip_code,source\nt1,Lagos\n"), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination")
}

func TestReadTripsCSVEmpty(t *testing.T) {
	rows, err := ReadTripsCSV(context.Background(), strings.NewReader(""), ',')
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVTripReaderZeroByteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	rows, err := NewCSVTripReader(path).ListTrips(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadTripsCSVHeaderOnly(t *testing.T) {
	rows, err := ReadTripsCSV(context.Background(), strings.NewReader("trip_code,source,destination\n"), ',')
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCSVTripReaderMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")
	_, err := NewCSVTripReader(path).ListTrips(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestReadTripsXLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]any{"trip_code", "source", "destination"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]any{"T1", "Lagos!", "Abuja?"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]any{"t2", "Kano", "Lagos"}))

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	rows, err := ReadTripsXLSX(context.Background(), bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)

	assert.Equal(t, []domain.TripRow{
		{TripCode: "T1", Source: "Lagos!", Destination: "Abuja?"},
		{TripCode: "t2", Source: "Kano", Destination: "Lagos"},
	}, rows)
}

func TestCSVRecordWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trips.csv")
	records := []domain.OutputRecord{
		{TripCode: "t1", Length: "761.337KM", Time: "11:10:10", Source: "Lagos", SourceCoords: "6.455, 3.394", Destination: "Abuja", DestinationCoords: "9.057, 7.489"},
		{TripCode: "t2", Length: "1KM", Time: "00:01:00", Source: "Kano", SourceCoords: "12, 8.517", Destination: "Lagos", DestinationCoords: "6.455, 3.394"},
	}

	require.NoError(t, NewCSVRecordWriter(path).WriteRecords(context.Background(), records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.OutputColumns, got[0])
	assert.Equal(t, records[0].Values(), got[1])
	assert.Equal(t, "t2", got[2][0])

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".trips-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCSVRecordWriterRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.csv")
	require.Error(t, NewCSVRecordWriter(path).WriteRecords(context.Background(), nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
