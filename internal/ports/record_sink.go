package ports

import (
	"context"
	"trip-route-resolver/internal/domain"
)

// Port: a destination for assembled output records.
type RecordSink interface {
	// Emit all records, preserving order.
	WriteRecords(ctx context.Context, records []domain.OutputRecord) error
}
