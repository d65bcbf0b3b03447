package features

import (
	"math"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// Blend weights for the dependence composite. They sum to 1, keeping the
// score in [0,1].
const (
	depWeightAssisted = 0.5
	depWeightSpotUp   = 0.3
	depWeightUsage    = 0.2
)

// dependenceExtractor quantifies how much a player's production relies on
// teammates and system. The composite score is one axis of the risk
// matrix.
type dependenceExtractor struct {
	cfg *config.Config
}

func (x *dependenceExtractor) group() string { return "dependence" }

func (x *dependenceExtractor) names() []string {
	return []string{"assisted_share", "spot_up_share", "score"}
}

func (x *dependenceExtractor) extract(ps *nba.PlayerSeason) []nba.FeatureValue {
	out := make([]nba.FeatureValue, 0, 3)

	made := madeShots(ps.ShotEvents)
	assistedShare, haveAssisted := share(made, func(e nba.ShotEvent) bool { return e.Assisted })
	if haveAssisted {
		out = append(out, value("assisted_share", assistedShare))
	} else {
		out = append(out, absent("assisted_share"))
	}

	// Catch-and-shoot proxy: assisted threes as a share of all attempts.
	spotUpShare, haveSpotUp := share(ps.ShotEvents, func(e nba.ShotEvent) bool {
		return e.Assisted && e.Value == 3
	})
	if haveSpotUp {
		out = append(out, value("spot_up_share", spotUpShare))
	} else {
		out = append(out, absent("spot_up_share"))
	}

	if haveAssisted && haveSpotUp && ps.Possessions > 0 {
		usageTerm := 0.0
		if norm := x.cfg.DependenceUsageNorm; norm > 0 {
			usageTerm = 1 - math.Min(1, ps.UsageRate/norm)
		}
		score := depWeightAssisted*assistedShare + depWeightSpotUp*spotUpShare + depWeightUsage*usageTerm
		out = append(out, value("score", score))
	} else {
		out = append(out, absent("score"))
	}

	return out
}
