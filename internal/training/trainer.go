package training

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/internal/selection"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// Trainer fits the resilience model on the FeatureSet-reduced design
// matrix. Validation uses the same season-blocked folds as selection:
// random splits would let within-season correlation leak into validation
// and silently inflate every reported score.
type Trainer struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func NewTrainer(cfg *config.Config, logger *logrus.Logger) *Trainer {
	return &Trainer{cfg: cfg, logger: logger}
}

// Train fits a linear model against the selected features and returns it
// with per-feature importances and the full per-fold calibration
// distribution. With samples this small a point accuracy number hides the
// variance that matters.
func (t *Trainer) Train(rows []nba.TrainingRow, fs *nba.FeatureSet) (*nba.TrainedModel, error) {
	if fs == nil || len(fs.Features) == 0 {
		return nil, fmt.Errorf("empty feature set")
	}

	folds, err := selection.SeasonBlockedFolds(rows, t.cfg.CVFolds, t.cfg.RandomSeed)
	if err != nil {
		return nil, err
	}

	foldScores := make([]float64, 0, len(folds))
	for i, fold := range folds {
		fit, err := selection.FitLinear(trainSubset(rows, fold.Train), fs.Features)
		if err != nil {
			return nil, fmt.Errorf("calibration fold %d: %w", i, err)
		}
		score, err := selection.RSquared(fit, trainSubset(rows, fold.Validate))
		if err != nil {
			return nil, fmt.Errorf("calibration fold %d: %w", i, err)
		}
		foldScores = append(foldScores, score)
	}

	fit, err := selection.FitLinear(rows, fs.Features)
	if err != nil {
		return nil, fmt.Errorf("final fit: %w", err)
	}

	_, matrix, _, err := selection.CompleteRows(rows, fs.Features)
	if err != nil {
		return nil, err
	}
	importances := make(map[string]float64, len(fs.Features))
	for i, name := range fs.Features {
		col := make([]float64, len(matrix))
		for r := range matrix {
			col[r] = matrix[r][i]
		}
		importances[name] = math.Abs(fit.Weights[i]) * stat.StdDev(col, nil)
	}

	model := &nba.TrainedModel{
		Version:           modelVersion(fs.Version, fit.Weights, t.cfg.RandomSeed),
		FeatureSetVersion: fs.Version,
		Features:          append([]string(nil), fs.Features...),
		Weights:           append([]float64(nil), fit.Weights...),
		Intercept:         fit.Intercept,
		Importances:       importances,
		Calibration:       summarize(foldScores),
		TrainedAt:         time.Now().UTC(),
	}

	t.logger.WithFields(logrus.Fields{
		"model_version":   model.Version,
		"feature_set":     fs.Version,
		"cv_mean":         model.Calibration.Mean,
		"cv_std":          model.Calibration.Std,
		"training_rows":   len(matrix),
		"features":        len(fs.Features),
	}).Info("Model training complete")
	return model, nil
}

func summarize(scores []float64) nba.Calibration {
	cal := nba.Calibration{
		FoldScores: append([]float64(nil), scores...),
		Mean:       stat.Mean(scores, nil),
		Min:        math.Inf(1),
		Max:        math.Inf(-1),
	}
	if len(scores) > 1 {
		cal.Std = stat.StdDev(scores, nil)
	}
	for _, s := range scores {
		cal.Min = math.Min(cal.Min, s)
		cal.Max = math.Max(cal.Max, s)
	}
	return cal
}

func trainSubset(rows []nba.TrainingRow, idx []int) []nba.TrainingRow {
	out := make([]nba.TrainingRow, 0, len(idx))
	for _, i := range idx {
		out = append(out, rows[i])
	}
	return out
}

// modelVersion is content-addressed: same feature set, weights and seed
// always name the same model.
func modelVersion(fsVersion string, weights []float64, seed int64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d", fsVersion, seed)
	for _, w := range weights {
		fmt.Fprintf(h, "|%.12f", w)
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
