package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zfogg/curlmap/backend/internal/config"
	"github.com/zfogg/curlmap/backend/internal/container"
	"github.com/zfogg/curlmap/backend/internal/database"
	"github.com/zfogg/curlmap/backend/internal/logger"
)

var (
	output string = "text" // "text" or "json"

	app *container.Container
)

var rootCmd = &cobra.Command{
	Use:   "curlmap",
	Short: "curlmap CLI - maintain the directory cache, forum limits and enrichment",
	Long: `curlmap CLI operates on the same database and cache store as the server.
Cache and rate limit commands only reach a running server's state when
REDIS_HOST points at the shared Redis instance.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		return bootstrap()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app != nil {
			_ = app.Cleanup(context.Background())
		}
		return database.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	// Add command groups
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(rateLimitCmd)
	rootCmd.AddCommand(enrichCmd)
}

func bootstrap() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.Log.Level, cfg.Log.File); err != nil {
		return err
	}
	if err := database.Initialize(cfg.Database, cfg.Server.Environment); err != nil {
		return err
	}
	app, err = container.Build(cfg, database.DB, nil)
	return err
}

// printResult writes v as JSON or hands it to text for the default format
func printResult(v interface{}, text func()) error {
	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
