package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirememorey/resilience-basketball-sub004/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "resilience",
		Short: "Playoff resilience prediction pipeline",
		Long: `resilience predicts how a player's on-court effectiveness holds up under
playoff-level defensive pressure, and flags latent stars whose profile
suggests elite resilience before the box score shows it.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.ExtractCmd())
	rootCmd.AddCommand(cli.TrainCmd())
	rootCmd.AddCommand(cli.PredictCmd())
	rootCmd.AddCommand(cli.ScoutCmd())
	rootCmd.AddCommand(cli.ValidateCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
