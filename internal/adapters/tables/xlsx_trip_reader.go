package tables

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"trip-route-resolver/internal/domain"

	"github.com/xuri/excelize/v2"
)

// XLSXTripReader loads trips from a spreadsheet. Sheet defaults to the
// first sheet of the workbook.
type XLSXTripReader struct {
	Path  string
	Sheet string
}

func NewXLSXTripReader(path, sheet string) *XLSXTripReader {
	return &XLSXTripReader{Path: path, Sheet: sheet}
}

func (r *XLSXTripReader) ListTrips(ctx context.Context) ([]domain.TripRow, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("read trips: open %q: %w", r.Path, err)
	}
	defer f.Close()

	rows, err := ReadTripsXLSX(ctx, f, r.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read trips %q: %w", r.Path, err)
	}
	return rows, nil
}

// ReadTripsXLSX parses trip rows from a workbook stream.
func ReadTripsXLSX(ctx context.Context, src io.Reader, sheet string) ([]domain.TripRow, error) {
	wb, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	records, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return []domain.TripRow{}, nil
	}

	cols, err := indexHeader(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TripRow, 0, len(records)-1)
	for _, record := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, cols.row(record))
	}

	return rows, nil
}
