package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/internal/predictor"
)

// PredictCmd scores stored player-seasons with the primary model. With
// --player/--season it prints one prediction; otherwise it scores and
// persists the whole population.
func PredictCmd() *cobra.Command {
	var playerID, seasonID string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Assign resilience archetypes with the primary model",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp()
			if err != nil {
				return err
			}
			defer cleanup()

			if playerID != "" || seasonID != "" {
				if playerID == "" || seasonID == "" {
					return fmt.Errorf("--player and --season must be given together")
				}
				return predictOne(a, playerID, seasonID)
			}

			population, summary, err := a.pipeline.PredictAll(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(summary)

			byArchetype := make(map[nba.Archetype]int)
			for _, ps := range population {
				if ps.Prediction != nil {
					byArchetype[ps.Prediction.Archetype]++
				}
			}
			for _, archetype := range nba.ArchetypeCatalog {
				if n := byArchetype[archetype]; n > 0 {
					fmt.Printf("  %-20s %d\n", archetype, n)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "player ID to score")
	cmd.Flags().StringVar(&seasonID, "season", "", "season ID to score")
	return cmd
}

func predictOne(a *app, playerID, seasonID string) error {
	model, err := a.store.PrimaryModel()
	if err != nil {
		return err
	}
	ps, err := a.store.LoadPlayerSeason(playerID, seasonID)
	if err != nil {
		return err
	}
	if ps.Vector == nil {
		vec, err := a.pipeline.Extractor().Extract(ps)
		if err != nil {
			return err
		}
		ps.Vector = vec
	}

	pred := predictor.NewPredictor(a.cfg, model, a.logger)
	prediction, err := pred.Predict(ps)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s) %s\n", ps.PlayerName, ps.PlayerID, ps.SeasonID)
	fmt.Printf("  archetype:  %s\n", prediction.Archetype)
	if prediction.Archetype != nba.ArchetypeInsufficientData {
		fmt.Printf("  score:      %+.4f\n", prediction.Score)
		fmt.Printf("  confidence: %.4f\n", prediction.Confidence)
		fmt.Printf("  dependence: %.4f\n", prediction.Dependence)
	}
	for _, g := range prediction.Gates {
		status := "pass"
		if g.Missing {
			status = "missing"
		} else if !g.Passed {
			status = "fail"
		}
		fmt.Printf("  gate %-24s %s\n", g.Name, status)
	}
	return nil
}
