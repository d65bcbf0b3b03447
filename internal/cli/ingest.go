package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/internal/providers"
	"github.com/hirememorey/resilience-basketball-sub004/internal/services"
)

// IngestCmd collects raw season data from the stats provider and builds
// the predictive dataset (vectors + labels) from it.
func IngestCmd() *cobra.Command {
	var seasons []string
	var workers int
	var forceRefresh bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch raw player-season data and build the predictive dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(seasons) == 0 {
				return fmt.Errorf("at least one --season is required")
			}

			a, cleanup, err := newApp()
			if err != nil {
				return err
			}
			defer cleanup()

			cache, err := a.newCache()
			if err != nil {
				return err
			}

			client := providers.NewStatsClient(a.cfg, cache, a.logger)
			client.SetForceRefresh(forceRefresh)

			ingestor := services.NewIngestor(a.cfg, client, a.logger)
			population, ingestSummary := ingestor.Ingest(cmd.Context(), seasons, workers)
			if len(population) == 0 {
				return fmt.Errorf("ingestion produced no player-seasons (%d failures)", ingestSummary.Failed)
			}

			summaries, err := a.pipeline.BuildDataset(cmd.Context(), population, workers)
			if err != nil {
				return err
			}

			printSummary(ingestSummary)
			for _, s := range summaries {
				printSummary(s)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&seasons, "season", nil, "season IDs to ingest (repeatable or comma-separated)")
	cmd.Flags().IntVar(&workers, "workers", 0, "ingestion worker count (default from config)")
	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "bypass the response cache and overwrite it")
	return cmd
}

// ExtractCmd re-derives vectors and labels for the stored population
// without touching the provider. A re-run replaces every derived field.
func ExtractCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Recompute stress vectors and labels from stored raw data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp()
			if err != nil {
				return err
			}
			defer cleanup()

			population, err := a.store.LoadPopulation()
			if err != nil {
				return err
			}
			if len(population) == 0 {
				return fmt.Errorf("no stored player-seasons; run ingest first")
			}

			summaries, err := a.pipeline.BuildDataset(cmd.Context(), population, workers)
			if err != nil {
				return err
			}
			for _, s := range summaries {
				printSummary(s)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 4, "extraction worker count")
	return cmd
}

// printSummary renders a stage's completeness report: what ran, what was
// excluded and why.
func printSummary(s *nba.RunSummary) {
	fmt.Printf("stage=%s processed=%d labeled=%d low_sample=%d failed=%d duration=%s\n",
		s.Stage, s.Processed, s.Labeled, s.LowSample, s.Failed, s.Duration)
	keys := make([]string, 0, len(s.Exclusions))
	for key := range s.Exclusions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  excluded %s: %s\n", key, s.Exclusions[key])
	}
}
