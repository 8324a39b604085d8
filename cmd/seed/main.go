package main

import (
	"context"
	"fmt"
	"os"

	"github.com/zfogg/curlmap/backend/internal/config"
	"github.com/zfogg/curlmap/backend/internal/database"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/seed"
)

func main() {
	// Parse command
	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var run func(*seed.Seeder, context.Context) error
	switch command {
	case "dev":
		run = (*seed.Seeder).SeedDev
	case "test":
		run = (*seed.Seeder).SeedTest
	case "clean":
		run = (*seed.Seeder).Clean
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  test  - Seed test database with minimal data")
		fmt.Println("  clean - Remove all seed data (use with caution)")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := database.Initialize(cfg.Database, cfg.Server.Environment); err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	logger.Log.Info("Seeding database: " + command)
	if err := run(seed.NewSeeder(database.DB), context.Background()); err != nil {
		logger.FatalWithFields("Seeding failed", err)
	}
	logger.Log.Info("Seeding completed")
}
