package features

import (
	"math"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// gatesExtractor emits soft threshold indicators in [0,1]: how close a
// season is to each eligibility threshold. The predictor consumes the same
// config constants when it evaluates hard gates, so training and inference
// cannot drift apart.
type gatesExtractor struct {
	cfg *config.Config
}

func (x *gatesExtractor) group() string { return "gates" }

func (x *gatesExtractor) names() []string {
	return []string{"minutes_gate", "usage_gate", "volume_gate"}
}

func softGate(v, threshold float64) float64 {
	if threshold <= 0 {
		return 1
	}
	return math.Min(1, v/threshold)
}

func (x *gatesExtractor) extract(ps *nba.PlayerSeason) []nba.FeatureValue {
	out := make([]nba.FeatureValue, 0, 3)

	if ps.Minutes >= 0 && ps.GamesPlayed > 0 {
		out = append(out, value("minutes_gate", softGate(ps.Minutes, x.cfg.MinSeasonMinutes)))
	} else {
		out = append(out, absent("minutes_gate"))
	}

	if ps.Possessions > 0 {
		out = append(out, value("usage_gate", softGate(ps.UsageRate, x.cfg.EliteUsageRate)))
		out = append(out, value("volume_gate", softGate(ps.Possessions, x.cfg.MinSeasonPossessions)))
	} else {
		out = append(out, absent("usage_gate"), absent("volume_gate"))
	}

	return out
}
