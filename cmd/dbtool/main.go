package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"carpool-route-service/internal/adapters/repositories"
	"carpool-route-service/internal/config"
	"carpool-route-service/internal/platform/db"
	"carpool-route-service/internal/platform/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	zl, err := logger.New(config.Get("APP_ENV", "development"), config.Get("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		zl.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/passengers.json")
	if err := initAndSeed(ctx, conn, seedPath, zl); err != nil {
		zl.Fatal("init and seed", zap.Error(err))
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string, zl *zap.Logger) error {
	zl.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	zl.Info("schema ready")

	zl.Info("seeding database", zap.String("seed_path", seedPath))
	n, err := repositories.SeedFromJSON(ctx, conn, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	zl.Info("seeding complete", zap.Int("passengers", n))

	return nil
}
