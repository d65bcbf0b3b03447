package labels

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// Generator computes the historical resilience outcome used as training
// ground truth: playoff per-possession efficiency, adjusted for opponent
// defensive strength, against the regular-season baseline.
//
// The normalization constants and minimum-sample thresholds come from
// config — the predictor's gates read the same values, so labeling and
// inference share one source of truth per threshold.
type Generator struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func NewGenerator(cfg *config.Config, logger *logrus.Logger) *Generator {
	return &Generator{cfg: cfg, logger: logger}
}

// Generate computes the label for one player-season, or nil when the
// season lacks playoff sample. Seasons without labels stay in the
// predictive dataset for inference-only use.
func (g *Generator) Generate(ps *nba.PlayerSeason) (*nba.Label, error) {
	if ps.Possessions <= 0 {
		return nil, &nba.MissingDataError{PlayerID: ps.PlayerID, SeasonID: ps.SeasonID, Field: "possessions"}
	}
	if ps.LowSample || ps.Minutes < g.cfg.MinSeasonMinutes {
		return nil, nba.ErrLowSample
	}
	if ps.PlayoffPossessions < g.cfg.MinPlayoffPossessions {
		// Not an error: zero-playoff seasons are the common case.
		return nil, nil
	}
	if ps.OpponentDefRating <= 0 {
		return nil, &nba.MissingDataError{PlayerID: ps.PlayerID, SeasonID: ps.SeasonID, Field: "opponent_def_rating"}
	}

	// A lower defensive rating means a tougher slate; credit efficiency
	// held against better-than-average defenses.
	adjustment := g.cfg.DefenseAdjustmentScale * (g.cfg.LeagueAvgDefRating - ps.OpponentDefRating) / 100
	adjusted := ps.PlayoffPointsPerPoss + adjustment

	return &nba.Label{
		Resilience:      adjusted - ps.PointsPerPoss,
		PlayoffAdjusted: adjusted,
		Baseline:        ps.PointsPerPoss,
	}, nil
}

// GenerateBatch labels a population in place and reports coverage. Label
// failures are isolated per entity; the batch always completes.
func (g *Generator) GenerateBatch(population []*nba.PlayerSeason) *nba.RunSummary {
	summary := &nba.RunSummary{Stage: "label", StartedAt: time.Now()}
	for _, ps := range population {
		summary.Processed++
		label, err := g.Generate(ps)
		if err != nil {
			if err == nba.ErrLowSample {
				summary.LowSample++
			} else {
				summary.Failed++
			}
			summary.RecordExclusion(ps.Key(), err.Error())
			continue
		}
		if label == nil {
			summary.RecordExclusion(ps.Key(), "insufficient playoff possessions")
			continue
		}
		ps.Label = label
		summary.Labeled++
	}
	summary.Duration = time.Since(summary.StartedAt)

	g.logger.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"labeled":   summary.Labeled,
		"excluded":  summary.Processed - summary.Labeled,
	}).Info("Label generation complete")
	return summary
}
