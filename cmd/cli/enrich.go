package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zfogg/curlmap/backend/internal/enrichment"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Geocode salons and sync Google place data",
}

var enrichRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Enrich every stored salon once and clear the cache if anything changed",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		r := enrichment.NewRefresher(app.Pipeline(), app.Salons(), app.Directory(), time.Hour)
		changed := r.RunOnce(cmd.Context())

		result := map[string]interface{}{
			"changed":  changed,
			"duration": time.Since(start).String(),
		}
		return printResult(result, func() {
			fmt.Printf("✅ Enrichment finished: %d salons updated (took %s)\n", changed, time.Since(start).Round(time.Millisecond))
		})
	},
}

func init() {
	enrichCmd.AddCommand(enrichRunCmd)
}
