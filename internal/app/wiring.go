// Package app builds the adapters named by a config.Config. It is shared by
// the command entry points.
package app

import (
	"database/sql"
	"fmt"
	"trip-route-resolver/internal/adapters/geocoding"
	"trip-route-resolver/internal/adapters/repositories"
	"trip-route-resolver/internal/adapters/routing"
	"trip-route-resolver/internal/adapters/sinks"
	"trip-route-resolver/internal/adapters/tables"
	"trip-route-resolver/internal/config"
	"trip-route-resolver/internal/platform/db"
	"trip-route-resolver/internal/ports"
	"trip-route-resolver/internal/services"

	"go.uber.org/zap"
)

// closeFunc releases whatever an opened adapter holds.
type closeFunc func() error

func noClose() error { return nil }

// OpenTripSource returns the trip source selected by cfg.Input.
func OpenTripSource(cfg *config.Config) (ports.TripSource, func() error, error) {
	in := cfg.Input
	switch in.Driver {
	case config.DriverCSV:
		return tables.NewCSVTripReader(in.Path), noClose, nil
	case config.DriverXLSX:
		return tables.NewXLSXTripReader(in.Path, in.Sheet), noClose, nil
	case config.DriverSqlite:
		conn, err := db.OpenSqlite(in.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open trip source: %w", err)
		}
		return repositories.NewSqliteTripRepository(conn), conn.Close, nil
	case config.DriverPostgres:
		conn, err := db.Open(in.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open trip source: %w", err)
		}
		return repositories.NewSQLTripRepository(conn), conn.Close, nil
	default:
		return nil, nil, fmt.Errorf("open trip source: %w: got %q", config.ErrInvalidInputDriver, in.Driver)
	}
}

// OpenDatabase opens the SQLite or PostgreSQL database named by cfg.Input.
func OpenDatabase(cfg *config.Config) (*sql.DB, error) {
	switch cfg.Input.Driver {
	case config.DriverSqlite:
		return db.OpenSqlite(cfg.Input.Path)
	case config.DriverPostgres:
		return db.Open(cfg.Input.DSN)
	default:
		return nil, fmt.Errorf("open database: driver %q is not a database", cfg.Input.Driver)
	}
}

// NewPipeline builds the resolution pipeline against the configured
// Nominatim and Valhalla endpoints.
func NewPipeline(cfg *config.Config, log *zap.Logger) (*services.Pipeline, error) {
	geo, err := geocoding.NewNominatimClient(cfg.NominatimOptions())
	if err != nil {
		return nil, fmt.Errorf("new pipeline: %w", err)
	}
	router, err := routing.NewValhallaClient(cfg.ValhallaOptions())
	if err != nil {
		return nil, fmt.Errorf("new pipeline: %w", err)
	}

	p := services.NewPipeline(geo, router, log)
	p.Geocode = cfg.GeocodeOptions()
	p.Routes = cfg.RouteOptions()
	return p, nil
}

// OpenSinks returns the optional Kafka and Redis sinks; a nil sink means
// none is configured.
func OpenSinks(cfg *config.Config, log *zap.Logger) (ports.RecordSink, func() error, error) {
	var (
		out    sinks.Multi
		closes []closeFunc
	)

	closeAll := func() error {
		var first error
		for _, c := range closes {
			if err := c(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	if k := cfg.Output.Kafka; k.Enabled() {
		s, err := sinks.NewKafkaSink(k.Brokers, k.Topic, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open sinks: %w", err)
		}
		out = append(out, s)
		closes = append(closes, s.Close)
	}

	if r := cfg.Output.Redis; r.Enabled() {
		s, err := sinks.NewRedisStreamSink(r.Addr, r.Stream, log)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("open sinks: %w", err)
		}
		out = append(out, s)
		closes = append(closes, s.Close)
	}

	if len(out) == 0 {
		return nil, noClose, nil
	}
	return out, closeAll, nil
}
