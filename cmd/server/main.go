package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
	"trip-route-resolver/internal/api"
	"trip-route-resolver/internal/app"
	"trip-route-resolver/internal/config"
	"trip-route-resolver/internal/platform/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (Nominatim, Valhalla, trip source, sinks) behind
// ports and starts the HTTP server.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := serve(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	source, closeSource, err := app.OpenTripSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	pipeline, err := app.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	sink, closeSinks, err := app.OpenSinks(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	router := api.NewRouter(pipeline, source, sink, logger)

	// Timeouts are tuned for rate-limited geocoding of whole trip tables.
	logger.Info("server listening", zap.String("addr", ":"+cfg.Server.Port))
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}
