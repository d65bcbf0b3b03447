package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// TrainCmd runs feature selection and model training against the stored
// predictive dataset. The resulting model stays unpromoted until it clears
// the risk matrix gate (see validate --promote).
func TrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Select features and train a resilience model",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp()
			if err != nil {
				return err
			}
			defer cleanup()

			model, fs, err := a.pipeline.Train(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("feature set %s (%d features):\n", fs.Version, len(fs.Features))
			for _, f := range fs.Features {
				fmt.Printf("  %s\n", f)
			}

			fmt.Printf("\nmodel %s (feature set %s)\n", model.Version, model.FeatureSetVersion)
			fmt.Printf("calibration: mean=%.4f std=%.4f min=%.4f max=%.4f folds=%v\n",
				model.Calibration.Mean, model.Calibration.Std,
				model.Calibration.Min, model.Calibration.Max, model.Calibration.FoldScores)

			fmt.Println("\nimportances:")
			names := make([]string, 0, len(model.Importances))
			for name := range model.Importances {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool {
				if model.Importances[names[i]] != model.Importances[names[j]] {
					return model.Importances[names[i]] > model.Importances[names[j]]
				}
				return names[i] < names[j]
			})
			for _, name := range names {
				fmt.Printf("  %-36s %.6f\n", name, model.Importances[name])
			}

			fmt.Println("\nmodel saved unpromoted; run `resilience validate --promote` to gate and promote it")
			return nil
		},
	}
	return cmd
}
