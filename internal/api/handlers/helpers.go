package handlers

import (
	"encoding/json"
	"net/http"
	"trip-route-resolver/internal/api/dto"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, msg string) {
	writeJSON(w, r, log, status, dto.ErrorResponse{Error: msg})
}

var zapNop = zap.NewNop()

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zapNop
	}
	return log
}
