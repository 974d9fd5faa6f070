// Package cli implements the WalkPal command-line interface using Cobra.
// Each subcommand maps to one companion, streak or reward operation.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/walkpal/walkpal/internal/api"
)

var rootCmd = &cobra.Command{
	Use:   "walkpal",
	Short: "WalkPal: a companion that grows as you walk",
	Long: `WalkPal turns your daily steps into experience for a virtual companion.
Hit your goal to grow it from an egg into an adult, keep streaks alive,
and earn credit against your subscription.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version
	api.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
