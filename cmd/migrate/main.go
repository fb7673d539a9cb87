package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ghuser/livebid/migrations/auction"
	"github.com/ghuser/livebid/pkg/config"
	"github.com/ghuser/livebid/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.EventsEnabled() {
		slog.Error("DATABASE_URL is required to run migrations")
		os.Exit(1)
	}
	if err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, auction.FS); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")
}
