package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rateLimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Inspect and reset forum post limits per client",
}

var rateLimitShowCmd = &cobra.Command{
	Use:   "show <ip>",
	Short: "Show how many posts a client has made in the current window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := app.Guard().RateLimitInfo(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to read rate limit: %w", err)
		}
		return printResult(info, func() {
			fmt.Printf("Client:    %s\n", args[0])
			fmt.Printf("Posts:     %d\n", info.Posts)
			fmt.Printf("Remaining: %d\n", info.Remaining)
			fmt.Printf("Resets in: %s\n", info.ResetIn)
		})
	},
}

var rateLimitClearCmd = &cobra.Command{
	Use:   "clear <ip>",
	Short: "Reset a client's post count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Guard().ClearRateLimit(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to clear rate limit: %w", err)
		}
		return printResult(map[string]string{"cleared": args[0]}, func() {
			fmt.Printf("✅ Rate limit cleared for %s\n", args[0])
		})
	},
}

func init() {
	rateLimitCmd.AddCommand(rateLimitShowCmd)
	rateLimitCmd.AddCommand(rateLimitClearCmd)
}
