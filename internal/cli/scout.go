package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ScoutCmd runs latent star detection over the scored population and
// prints the ranked candidate table.
func ScoutCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "scout",
		Short: "Flag latent star candidates by predicted-vs-current divergence",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp()
			if err != nil {
				return err
			}
			defer cleanup()

			candidates, summary, err := a.pipeline.Scout(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(summary)

			if len(candidates) == 0 {
				fmt.Println("no candidates above the divergence threshold")
				return nil
			}

			fmt.Printf("%-4s %-24s %-10s %-10s %9s %9s %9s  %s\n",
				"#", "player", "season", "bucket", "pred_pct", "curr_pct", "gap", "groups")
			for i, c := range candidates {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Printf("%-4d %-24s %-10s %-10s %9.3f %9.3f %9.3f  %s\n",
					i+1, c.PlayerName, c.SeasonID, c.Bucket,
					c.PredictedPct, c.CurrentPct, c.Divergence,
					strings.Join(c.Contributing, ","))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "maximum candidates to print (0 for all)")
	return cmd
}
