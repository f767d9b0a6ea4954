package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/obs"
	"trip-route-resolver/internal/ports"
)

// recordPayload is the JSON body published for one output record.
type recordPayload struct {
	RunID             string `json:"run_id,omitempty"`
	TripCode          string `json:"trip_code"`
	Length            string `json:"length"`
	Time              string `json:"time"`
	Source            string `json:"source"`
	SourceCoords      string `json:"source_coords"`
	Destination       string `json:"destination"`
	DestinationCoords string `json:"destination_coords"`
}

func encodeRecord(ctx context.Context, r domain.OutputRecord) ([]byte, error) {
	b, err := json.Marshal(recordPayload{
		RunID:             obs.RunID(ctx),
		TripCode:          r.TripCode,
		Length:            r.Length,
		Time:              r.Time,
		Source:            r.Source,
		SourceCoords:      r.SourceCoords,
		Destination:       r.Destination,
		DestinationCoords: r.DestinationCoords,
	})
	if err != nil {
		return nil, fmt.Errorf("encode record %q: %w", r.TripCode, err)
	}
	return b, nil
}

// Multi writes to every sink in order and stops at the first failure.
type Multi []ports.RecordSink

func (m Multi) WriteRecords(ctx context.Context, records []domain.OutputRecord) error {
	for i, s := range m {
		if err := s.WriteRecords(ctx, records); err != nil {
			return fmt.Errorf("sink #%d: %w", i+1, err)
		}
	}
	return nil
}
