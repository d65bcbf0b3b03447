package selection

import (
	"fmt"

	"github.com/sajari/regression"
	"gonum.org/v1/gonum/stat"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
)

// LinearFit is a fitted ordinary-least-squares model over a feature
// subset. Shared by the selector (per-fold importance ranking) and the
// trainer (final fit), so both stages rank features with the same model
// family.
type LinearFit struct {
	Features  []string
	Weights   []float64
	Intercept float64
}

// Predict scores one complete feature row.
func (f *LinearFit) Predict(values []float64) (float64, error) {
	if len(values) != len(f.Weights) {
		return 0, &nba.SchemaMismatchError{Expected: len(f.Weights), Got: len(values), Detail: "prediction row width"}
	}
	out := f.Intercept
	for i, v := range values {
		out += f.Weights[i] * v
	}
	return out, nil
}

// CompleteRows returns the subset of rows where every wanted feature is
// present, with the extracted numeric matrix. Rows with missing values are
// excluded rather than imputed; missingness stays a first-class signal.
func CompleteRows(rows []nba.TrainingRow, want []string) (kept []int, matrix [][]float64, labels []float64, err error) {
	for i, row := range rows {
		sub, err := nba.Subset(row.Values, want)
		if err != nil {
			return nil, nil, nil, err
		}
		vals, err := nba.Values(sub)
		if err != nil {
			if nba.IsMissingData(err) {
				continue
			}
			return nil, nil, nil, err
		}
		kept = append(kept, i)
		matrix = append(matrix, vals)
		labels = append(labels, row.Label)
	}
	return kept, matrix, labels, nil
}

// FitLinear fits OLS on the complete rows for the wanted features.
func FitLinear(rows []nba.TrainingRow, want []string) (*LinearFit, error) {
	_, matrix, labels, err := CompleteRows(rows, want)
	if err != nil {
		return nil, err
	}
	if len(matrix) < len(want)+2 {
		return nil, fmt.Errorf("not enough complete rows (%d) to fit %d features", len(matrix), len(want))
	}

	r := new(regression.Regression)
	r.SetObserved("resilience")
	for i, name := range want {
		r.SetVar(i, name)
	}
	for i := range matrix {
		r.Train(regression.DataPoint(labels[i], matrix[i]))
	}
	if err := r.Run(); err != nil {
		return nil, fmt.Errorf("regression fit failed: %w", err)
	}

	fit := &LinearFit{
		Features:  append([]string(nil), want...),
		Intercept: r.Coeff(0),
		Weights:   make([]float64, len(want)),
	}
	for i := range want {
		fit.Weights[i] = r.Coeff(i + 1)
	}
	return fit, nil
}

// RSquared computes the coefficient of determination of fit on the given
// rows, using only complete rows.
func RSquared(fit *LinearFit, rows []nba.TrainingRow) (float64, error) {
	_, matrix, labels, err := CompleteRows(rows, fit.Features)
	if err != nil {
		return 0, err
	}
	if len(matrix) == 0 {
		return 0, fmt.Errorf("no complete validation rows")
	}

	mean := stat.Mean(labels, nil)
	var ssRes, ssTot float64
	for i := range matrix {
		pred, err := fit.Predict(matrix[i])
		if err != nil {
			return 0, err
		}
		ssRes += (labels[i] - pred) * (labels[i] - pred)
		ssTot += (labels[i] - mean) * (labels[i] - mean)
	}
	if ssTot == 0 {
		return 0, nil
	}
	return 1 - ssRes/ssTot, nil
}

// featureStd computes per-feature standard deviations over a matrix.
func featureStd(matrix [][]float64, width int) []float64 {
	out := make([]float64, width)
	if len(matrix) == 0 {
		return out
	}
	col := make([]float64, len(matrix))
	for j := 0; j < width; j++ {
		for i := range matrix {
			col[i] = matrix[i][j]
		}
		out[j] = stat.StdDev(col, nil)
	}
	return out
}
