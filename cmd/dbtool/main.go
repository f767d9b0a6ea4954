package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"trip-route-resolver/internal/adapters/repositories"
	"trip-route-resolver/internal/adapters/tables"
	"trip-route-resolver/internal/app"
	"trip-route-resolver/internal/config"
	"trip-route-resolver/internal/domain"
	"trip-route-resolver/internal/platform/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// tripSeeder is implemented by both trip repositories.
type tripSeeder interface {
	SeedTrips(ctx context.Context, trips []domain.TripRow) error
}

// main creates the trips table and seeds it from a CSV trip table.
func main() {
	driver := flag.String("driver", "", "sqlite or postgres, overrides input.driver")
	seedPath := flag.String("seed", "", "CSV trip table to load")
	flag.Parse()

	logger, err := logging.New(config.Get("LOG_LEVEL", "info"), "console")
	if err != nil {
		os.Exit(1)
	}
	log := logger.Sugar()
	defer func() { _ = log.Sync() }()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	cfg := config.Default()
	cfg.Input.Driver = config.Get("TRIPS_INPUT_DRIVER", config.DriverSqlite)
	cfg.Input.Path = config.Get("TRIPS_DB_PATH", "data/trips.db")
	cfg.Input.DSN = config.Get("DATABASE_URL", "")
	if *driver != "" {
		cfg.Input.Driver = *driver
	}

	seed := *seedPath
	if seed == "" {
		seed = config.Get("SEED_PATH", "data/seeds/trips.csv")
	}

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		log.Fatal(err)
	}

	var seeder tripSeeder
	if cfg.Input.Driver == config.DriverPostgres {
		seeder = repositories.NewSQLTripRepository(db)
	} else {
		seeder = repositories.NewSqliteTripRepository(db)
	}

	err = initAndSeed(context.Background(), log, db, seeder, seed)
	db.Close()
	if err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, log *zap.SugaredLogger, db *sql.DB, seeder tripSeeder, seedPath string) error {
	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, db); err != nil {
		return err
	}
	log.Info("Schema ready.")

	trips, err := tables.NewCSVTripReader(seedPath).ListTrips(ctx)
	if err != nil {
		return err
	}

	log.Infow("Seeding trips", "count", len(trips), "path", seedPath)
	if err := seeder.SeedTrips(ctx, trips); err != nil {
		return err
	}
	log.Info("Seeding complete.")

	return nil
}
