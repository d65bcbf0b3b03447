package features

import (
	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// contextExtractor carries the box-score efficiency profile.
type contextExtractor struct {
	cfg *config.Config
}

func (x *contextExtractor) group() string { return "context" }

func (x *contextExtractor) names() []string {
	return []string{"efg", "turnover_rate", "free_throw_rate", "three_point_rate"}
}

func (x *contextExtractor) extract(ps *nba.PlayerSeason) []nba.FeatureValue {
	if ps.Possessions <= 0 {
		return []nba.FeatureValue{
			absent("efg"),
			absent("turnover_rate"),
			absent("free_throw_rate"),
			absent("three_point_rate"),
		}
	}
	return []nba.FeatureValue{
		value("efg", ps.EffectiveFGPct),
		value("turnover_rate", ps.TurnoverRate),
		value("free_throw_rate", ps.FreeThrowRate),
		value("three_point_rate", ps.ThreePointRate),
	}
}
