package features

import (
	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// trajectoryExtractor carries career-arc priors. Year-over-year efficiency
// movement separates an ascending profile from a peaked one at the same
// raw numbers.
type trajectoryExtractor struct {
	cfg *config.Config
}

func (x *trajectoryExtractor) group() string { return "trajectory" }

func (x *trajectoryExtractor) names() []string {
	return []string{"career_year", "age", "ppp_delta_prior"}
}

func (x *trajectoryExtractor) extract(ps *nba.PlayerSeason) []nba.FeatureValue {
	out := make([]nba.FeatureValue, 0, 3)

	if ps.CareerYear > 0 {
		out = append(out, value("career_year", float64(ps.CareerYear)))
	} else {
		out = append(out, absent("career_year"))
	}

	if ps.Age > 0 {
		out = append(out, value("age", ps.Age))
	} else {
		out = append(out, absent("age"))
	}

	if ps.HasPriorSeason && ps.Possessions > 0 {
		out = append(out, value("ppp_delta_prior", ps.PointsPerPoss-ps.PriorSeasonPPP))
	} else {
		// Rookies have no prior; missing, not zero.
		out = append(out, absent("ppp_delta_prior"))
	}

	return out
}
