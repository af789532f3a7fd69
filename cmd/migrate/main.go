package main

// Apply the session-store schema:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"cvbot-backend/internal/shared/config"
	"cvbot-backend/internal/shared/storage/db"
	"cvbot-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("connect database", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("run migrations", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrations applied", nil)
}
