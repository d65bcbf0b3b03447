package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/internal/riskmatrix"
)

// ValidateCmd runs the risk matrix acceptance harness. Case failures are
// printed and fail the promotion gate, but only a pipeline error (bad
// fixtures, missing model) exits non-zero.
func ValidateCmd() *cobra.Command {
	var casesPath, modelVersion string
	var promote bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check known case studies against the risk matrix grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp()
			if err != nil {
				return err
			}
			defer cleanup()

			cases, err := loadCases(casesPath)
			if err != nil {
				return err
			}

			var model *nba.TrainedModel
			if modelVersion != "" {
				model, err = a.store.LoadModel(modelVersion)
			} else {
				model, err = a.store.LatestModel()
			}
			if err != nil {
				return err
			}

			report, err := a.pipeline.Validate(cmd.Context(), cases, model, promote)
			if report != nil {
				printReport(report)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&casesPath, "cases", "riskmatrix_cases.json", "path to the case fixture file")
	cmd.Flags().StringVar(&modelVersion, "model", "", "model version to validate (default: newest)")
	cmd.Flags().BoolVar(&promote, "promote", false, "promote the model to primary when all cases pass")
	return cmd
}

func loadCases(path string) ([]riskmatrix.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases file: %w", err)
	}
	var cases []riskmatrix.Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parse cases file: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("cases file %s contains no cases", path)
	}
	return cases, nil
}

func printReport(report *riskmatrix.Report) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	fmt.Printf("%-16s %-12s %-10s %10s %11s  %-14s %-14s %s\n",
		"case", "player", "season", "dependence", "resilience", "expected", "actual", "result")
	for _, r := range report.Results {
		status := pass("PASS")
		if !r.Passed {
			status = fail("FAIL")
		}
		detail := ""
		if r.Err != "" {
			detail = "  (" + r.Err + ")"
		}
		fmt.Printf("%-16s %-12s %-10s %10.4f %+11.4f  %-14s %-14s %s%s\n",
			r.CaseID, r.PlayerID, r.SeasonID, r.Dependence, r.Resilience,
			r.Expected, r.Actual, status, detail)
	}

	fmt.Printf("\n%d passed, %d failed\n", report.Passed, report.Failed)
	if report.AllPassed() {
		fmt.Println(pass("acceptance gate: PASS"))
	} else {
		fmt.Println(fail("acceptance gate: FAIL"))
	}
}
