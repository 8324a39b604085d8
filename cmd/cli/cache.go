package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the directory cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the cached directory and mention roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.Directory().ClearCache(ctx); err != nil {
			return fmt.Errorf("failed to clear directory cache: %w", err)
		}
		if err := app.Mentions().ClearCache(ctx); err != nil {
			return fmt.Errorf("failed to clear mention roster: %w", err)
		}
		return printResult(map[string]string{"message": "Cache cleared successfully"}, func() {
			fmt.Println("✅ Cache cleared successfully")
		})
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show directory cache keys and ttl",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := app.Directory().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read cache stats: %w", err)
		}
		return printResult(stats, func() {
			fmt.Printf("Keys: %d\n", stats.Keys)
			fmt.Printf("TTL:  %ds\n", stats.TTL)
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
}
