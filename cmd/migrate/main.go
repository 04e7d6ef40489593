package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"botworkshop/internal/db"
	"botworkshop/internal/infra"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	logger := infra.NewLogger(os.Getenv("APP_ENV"))
	if databaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.Migrate(ctx, databaseURL); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Msg("migrations applied")
}
