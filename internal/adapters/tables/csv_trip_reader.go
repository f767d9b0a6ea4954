package tables

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"trip-route-resolver/internal/domain"
)

// CSVTripReader loads trips from a delimited file with a header row.
type CSVTripReader struct {
	Path  string
	Comma rune
}

func NewCSVTripReader(path string) *CSVTripReader {
	return &CSVTripReader{Path: path, Comma: ','}
}

func (r *CSVTripReader) ListTrips(ctx context.Context) ([]domain.TripRow, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("read trips: open %q: %w", r.Path, err)
	}
	defer f.Close()

	rows, err := ReadTripsCSV(ctx, f, r.Comma)
	if err != nil {
		return nil, fmt.Errorf("read trips %q: %w", r.Path, err)
	}
	return rows, nil
}

// ReadTripsCSV parses trip rows from src. Blank lines are ignored and an
// empty source yields no rows, like a header-only table.
func ReadTripsCSV(ctx context.Context, src io.Reader, comma rune) ([]domain.TripRow, error) {
	cr := csv.NewReader(src)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []domain.TripRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TripRow, 0, 64)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, cols.row(record))
	}

	return rows, nil
}
