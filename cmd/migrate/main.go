package main

import (
	"os"

	"github.com/rs/zerolog"

	"portal/internal/config"
	"portal/internal/logger"
	"portal/internal/schema"
	"portal/internal/store"
)

// migrate applies the database schema once and exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("invalid config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}
}

func run(cfg config.App, log zerolog.Logger) error {
	db, err := store.NewDB(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return err
	}
	defer db.Close()

	if err := schema.Apply(db.Client); err != nil {
		return err
	}
	log.Info().Str("driver", db.Driver).Msg("schema up to date")
	return nil
}
