package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"trip-route-resolver/internal/api/dto"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/obs"
	"trip-route-resolver/internal/ports"
	"trip-route-resolver/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner executes one resolution run; *services.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, raw []domain.TripRow) (*services.Result, error)
}

type ResolveHandler struct {
	Runner Runner
	// Source is used when the request carries no trips. Optional.
	Source ports.TripSource
	// Sink receives the records of every successful run. Optional.
	Sink ports.RecordSink
	Log  *zap.Logger
}

// Resolve runs the pipeline over the posted trips and returns the records.
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	log := orNop(h.Log)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, log, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ResolveRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, log, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, log, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	runID := uuid.NewString()
	ctx := obs.WithRunID(r.Context(), runID)
	log = log.With(zap.String("run_id", runID))

	rows := make([]domain.TripRow, 0, len(req.Trips))
	for _, t := range req.Trips {
		rows = append(rows, domain.TripRow{
			TripCode:    t.TripCode,
			Source:      t.Source,
			Destination: t.Destination,
		})
	}

	if len(rows) == 0 {
		if h.Source == nil {
			writeError(w, r, log, http.StatusBadRequest, "trips are required")
			return
		}
		stored, err := h.Source.ListTrips(ctx)
		if err != nil {
			log.Error("list trips failed", zap.Error(err))
			writeError(w, r, log, http.StatusInternalServerError, "internal server error")
			return
		}
		rows = stored
	}

	res, err := h.Runner.Run(ctx, rows)
	if errors.Is(err, services.ErrNoRoutesResolved) {
		writeJSON(w, r, log, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "no route information resolved",
			RunID: runID,
		})
		return
	}
	if err != nil {
		log.Error("resolve trips failed", zap.Error(err))
		writeError(w, r, log, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Sink != nil {
		if err := h.Sink.WriteRecords(ctx, res.Records); err != nil {
			log.Error("publish records failed", zap.Error(err))
			writeError(w, r, log, http.StatusBadGateway, "publishing records failed")
			return
		}
	}

	out := dto.ResolveResponse{
		RunID:   runID,
		Records: make([]dto.RecordResponse, 0, len(res.Records)),
		Skipped: append([]string{}, res.Skipped...),
		Stats: dto.StatsResponse{
			Trips:             res.Stats.Trips,
			Locations:         res.Stats.Locations,
			LocationsResolved: res.Stats.LocationsResolved,
			LocationsFailed:   res.Stats.LocationsFailed,
			Routes:            res.Stats.Routes,
			Skipped:           res.Stats.Skipped,
		},
	}
	for _, rec := range res.Records {
		out.Records = append(out.Records, dto.RecordResponse{
			TripCode:          rec.TripCode,
			Length:            rec.Length,
			Time:              rec.Time,
			Source:            rec.Source,
			SourceCoords:      rec.SourceCoords,
			Destination:       rec.Destination,
			DestinationCoords: rec.DestinationCoords,
		})
	}

	writeJSON(w, r, log, http.StatusOK, out)
}
