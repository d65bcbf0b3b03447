package selection

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// maxMissingShare prefilters features the population simply cannot
// support: a feature missing in more than half the labeled rows would
// decimate every fold it participates in.
const maxMissingShare = 0.5

// Selector runs recursive feature elimination under season-blocked k-fold
// cross-validation. Each round drops the least important feature by
// |weight| x feature std-dev averaged across folds, with lexical
// tie-breaking so identical inputs always produce identical output.
type Selector struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func NewSelector(cfg *config.Config, logger *logrus.Logger) *Selector {
	return &Selector{cfg: cfg, logger: logger}
}

// Run eliminates features from the full schema until the target count is
// reached or removal degrades cross-validated R² beyond the tolerance, in
// which case the best-scoring set seen is restored. The returned
// FeatureSet carries the per-round audit trail.
func (s *Selector) Run(rows []nba.TrainingRow, schema []string) (*nba.FeatureSet, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no labeled rows to select features from")
	}

	folds, err := SeasonBlockedFolds(rows, s.cfg.CVFolds, s.cfg.RandomSeed)
	if err != nil {
		return nil, err
	}

	current := s.prefilter(rows, schema)
	if len(current) == 0 {
		return nil, fmt.Errorf("no features survived missing-data prefilter")
	}

	var rounds []nba.RoundScore
	best := math.Inf(-1)
	bestSet := append([]string(nil), current...)

	for {
		mean, std, importances, err := s.evaluate(rows, folds, current)
		if err != nil {
			return nil, err
		}
		round := nba.RoundScore{
			Remaining: append([]string(nil), current...),
			CVMean:    mean,
			CVStd:     std,
		}

		if mean > best {
			best = mean
			bestSet = append([]string(nil), current...)
		} else if mean < best-s.cfg.CVTolerance {
			rounds = append(rounds, round)
			s.logger.WithFields(logrus.Fields{
				"cv_mean": mean,
				"best":    best,
			}).Info("Elimination degraded CV score beyond tolerance, reverting to best set")
			current = bestSet
			break
		}

		if len(current) <= s.cfg.TargetFeatureCount {
			rounds = append(rounds, round)
			break
		}

		drop := leastImportant(current, importances)
		round.Dropped = drop
		rounds = append(rounds, round)
		current = remove(current, drop)

		s.logger.WithFields(logrus.Fields{
			"dropped":   drop,
			"remaining": len(current),
			"cv_mean":   mean,
		}).Debug("Elimination round complete")
	}

	fs := &nba.FeatureSet{
		Version:   featureSetVersion(current, s.cfg.RandomSeed),
		CreatedAt: time.Now().UTC(),
		Features:  append([]string(nil), current...),
		Rounds:    rounds,
	}
	s.logger.WithFields(logrus.Fields{
		"version":  fs.Version,
		"features": len(fs.Features),
		"rounds":   len(fs.Rounds),
	}).Info("Feature selection complete")
	return fs, nil
}

// prefilter drops features missing in too many labeled rows, preserving
// schema order for the survivors.
func (s *Selector) prefilter(rows []nba.TrainingRow, schema []string) []string {
	missing := make(map[string]int, len(schema))
	for _, row := range rows {
		for _, f := range row.Values {
			if f.Missing {
				missing[f.Name]++
			}
		}
	}
	var out []string
	for _, name := range schema {
		share := float64(missing[name]) / float64(len(rows))
		if share > maxMissingShare {
			s.logger.WithFields(logrus.Fields{
				"feature":       name,
				"missing_share": share,
			}).Warn("Excluding feature with insufficient coverage")
			continue
		}
		out = append(out, name)
	}
	return out
}

// evaluate fits the feature subset on every fold and returns the mean and
// std of validation R² plus fold-averaged importances.
func (s *Selector) evaluate(rows []nba.TrainingRow, folds []Fold, features []string) (mean, std float64, importances map[string]float64, err error) {
	importances = make(map[string]float64, len(features))
	scores := make([]float64, 0, len(folds))

	for _, fold := range folds {
		trainRows := rowsAt(rows, fold.Train)
		valRows := rowsAt(rows, fold.Validate)

		fit, err := FitLinear(trainRows, features)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("fold fit: %w", err)
		}
		score, err := RSquared(fit, valRows)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("fold score: %w", err)
		}
		scores = append(scores, score)

		_, matrix, _, err := CompleteRows(trainRows, features)
		if err != nil {
			return 0, 0, nil, err
		}
		stds := featureStd(matrix, len(features))
		for i, name := range features {
			importances[name] += math.Abs(fit.Weights[i]) * stds[i]
		}
	}

	for name := range importances {
		importances[name] /= float64(len(folds))
	}
	mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		std = stat.StdDev(scores, nil)
	}
	return mean, std, importances, nil
}

// leastImportant picks the drop candidate; ties break to the lexically
// smallest identifier so runs are reproducible.
func leastImportant(features []string, importances map[string]float64) string {
	drop := ""
	min := math.Inf(1)
	for _, name := range features {
		imp := importances[name]
		if imp < min || (imp == min && name < drop) {
			min = imp
			drop = name
		}
	}
	return drop
}

func remove(features []string, name string) []string {
	out := make([]string, 0, len(features)-1)
	for _, f := range features {
		if f != name {
			out = append(out, f)
		}
	}
	return out
}

func rowsAt(rows []nba.TrainingRow, idx []int) []nba.TrainingRow {
	out := make([]nba.TrainingRow, 0, len(idx))
	for _, i := range idx {
		out = append(out, rows[i])
	}
	return out
}

// featureSetVersion derives a deterministic content-addressed version from
// the surviving features and the seed that produced them.
func featureSetVersion(features []string, seed int64) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", strings.Join(features, ","), seed)))
	return hex.EncodeToString(h[:])[:12]
}
