package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"trip-route-resolver/internal/adapters/tables"
	"trip-route-resolver/internal/app"
	"trip-route-resolver/internal/config"
	"trip-route-resolver/internal/platform/logging"
	"trip-route-resolver/internal/platform/obs"
	"trip-route-resolver/internal/report"
	"trip-route-resolver/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	exitOK      = 0
	exitFatal   = 1
	exitNoRoute = 2
)

// main loads the trip table, resolves every trip and writes the enriched table.
func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the YAML config file")
	inputPath := flag.String("input", "", "trip table path, overrides input.path")
	outputPath := flag.String("output", "", "output CSV path, overrides output.path")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFatal
	}
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFatal
	}
	defer func() { _ = log.Sync() }()

	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = obs.WithRunID(ctx, runID)

	if err := resolve(ctx, cfg, log); err != nil {
		if errors.Is(err, services.ErrNoRoutesResolved) {
			log.Error("no route information resolved")
			return exitNoRoute
		}
		log.Error("run failed", zap.Error(err))
		return exitFatal
	}

	return exitOK
}

func resolve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	source, closeSource, err := app.OpenTripSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	raw, err := source.ListTrips(ctx)
	if err != nil {
		return fmt.Errorf("failed to load trips: %w", err)
	}
	log.Info("loaded trip table", zap.String("driver", cfg.Input.Driver), zap.Int("rows", len(raw)))

	pipeline, err := app.NewPipeline(cfg, log)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, raw)
	if err != nil {
		return err
	}

	if err := tables.NewCSVRecordWriter(cfg.Output.Path).WriteRecords(ctx, res.Records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Info("wrote output table", zap.String("path", cfg.Output.Path), zap.Int("records", len(res.Records)))

	sink, closeSinks, err := app.OpenSinks(cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()
	if sink != nil {
		if err := sink.WriteRecords(ctx, res.Records); err != nil {
			return fmt.Errorf("failed to publish records: %w", err)
		}
	}

	if cfg.Output.PrintSummary {
		if err := report.WriteSummary(os.Stdout, res.Records, res.Skipped); err != nil {
			return err
		}
	}

	log.Info("run complete",
		zap.Int("trips", res.Stats.Trips),
		zap.Int("locations", res.Stats.Locations),
		zap.Int("locations_resolved", res.Stats.LocationsResolved),
		zap.Int("routes", res.Stats.Routes),
		zap.Int("skipped", res.Stats.Skipped),
	)
	return nil
}
