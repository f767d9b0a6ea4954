package api

import (
	"net/http"
	"trip-route-resolver/internal/api/handlers"
	"trip-route-resolver/internal/ports"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// source and sink may be nil.
func NewRouter(runner handlers.Runner, source ports.TripSource, sink ports.RecordSink, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{Source: source, Log: log}
	resolveHandler := &handlers.ResolveHandler{
		Runner: runner,
		Source: source,
		Sink:   sink,
		Log:    log,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/trips", tripHandler.List)
	mux.HandleFunc("/resolve", resolveHandler.Resolve)

	return loggingMiddleware(log, mux)
}
