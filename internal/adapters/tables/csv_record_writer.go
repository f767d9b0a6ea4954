package tables

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"trip-route-resolver/internal/domain"
)

// CSVRecordWriter writes the output table to Path, replacing the file
// atomically once every row has been written.
type CSVRecordWriter struct {
	Path string
}

func NewCSVRecordWriter(path string) *CSVRecordWriter {
	return &CSVRecordWriter{Path: path}
}

func (w *CSVRecordWriter) WriteRecords(ctx context.Context, records []domain.OutputRecord) (err error) {
	if len(records) == 0 {
		return errors.New("write records: nothing to write")
	}

	dir := filepath.Dir(w.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write records: create dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".trips-*.csv")
	if err != nil {
		return fmt.Errorf("write records: create temp file in %q: %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := WriteRecordsCSV(ctx, tmp, records); err != nil {
		return fmt.Errorf("write records %q: %w", w.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write records %q: close: %w", w.Path, err)
	}
	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		return fmt.Errorf("write records %q: rename: %w", w.Path, err)
	}

	return nil
}

// WriteRecordsCSV writes the header and records to dst.
func WriteRecordsCSV(ctx context.Context, dst io.Writer, records []domain.OutputRecord) error {
	cw := csv.NewWriter(dst)
	if err := cw.Write(domain.OutputColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("write row %s: %w", r.TripCode, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
