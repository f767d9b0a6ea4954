package handlers

import (
	"net/http"
	"trip-route-resolver/internal/api/dto"
	"trip-route-resolver/internal/ports"

	"go.uber.org/zap"
)

// TripHandler exposes the trips of the configured source.
type TripHandler struct {
	Source ports.TripSource
	Log    *zap.Logger
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	log := orNop(h.Log)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, log, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Source == nil {
		writeError(w, r, log, http.StatusNotFound, "no trip source configured")
		return
	}

	trips, err := h.Source.ListTrips(r.Context())
	if err != nil {
		log.Error("list trips failed", zap.Error(err))
		writeError(w, r, log, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTripsResponse{
		Trips: make([]dto.TripResponse, 0, len(trips)),
	}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.TripResponse{
			TripCode:    t.TripCode,
			Source:      t.Source,
			Destination: t.Destination,
		})
	}

	writeJSON(w, r, log, http.StatusOK, res)
}
