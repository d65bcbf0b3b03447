package features

import (
	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// leverageExtractor covers high-leverage game situations: late fourth
// quarter and overtime, where possessions look most like playoff
// possessions.
type leverageExtractor struct {
	cfg *config.Config
}

func (x *leverageExtractor) group() string { return "leverage" }

func (x *leverageExtractor) names() []string {
	return []string{"clutch_share", "clutch_efg", "fourth_quarter_share"}
}

// clutch: fourth period or overtime with the game clock inside the
// configured window.
func (x *leverageExtractor) isClutch(e nba.ShotEvent) bool {
	return e.Period >= 4 && e.ClockSeconds <= x.cfg.ClutchWindowSeconds
}

func (x *leverageExtractor) extract(ps *nba.PlayerSeason) []nba.FeatureValue {
	out := make([]nba.FeatureValue, 0, 3)

	if s, ok := share(ps.ShotEvents, x.isClutch); ok {
		out = append(out, value("clutch_share", s))
	} else {
		out = append(out, absent("clutch_share"))
	}

	clutch := filterShots(ps.ShotEvents, x.isClutch)
	if len(clutch) >= x.cfg.MinClutchAttempts {
		efg, _ := effectiveFG(clutch)
		out = append(out, value("clutch_efg", efg))
	} else {
		// Too few attempts for the rate to mean anything.
		out = append(out, absent("clutch_efg"))
	}

	if s, ok := share(ps.ShotEvents, func(e nba.ShotEvent) bool { return e.Period >= 4 }); ok {
		out = append(out, value("fourth_quarter_share", s))
	} else {
		out = append(out, absent("fourth_quarter_share"))
	}

	return out
}
