package features

import (
	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// pressureExtractor measures shot difficulty: contested attempts, late
// shot-clock attempts, average release distance. A player who already
// scores on hard shots has less to lose when the easy ones disappear.
type pressureExtractor struct {
	cfg *config.Config
}

func (x *pressureExtractor) group() string { return "pressure" }

func (x *pressureExtractor) names() []string {
	return []string{"contested_share", "contested_efg", "late_clock_share", "late_clock_efg", "avg_shot_distance"}
}

func (x *pressureExtractor) lateClock(e nba.ShotEvent) bool {
	return e.ShotClock >= 0 && e.ShotClock <= x.cfg.LateShotClockSeconds
}

func (x *pressureExtractor) extract(ps *nba.PlayerSeason) []nba.FeatureValue {
	out := make([]nba.FeatureValue, 0, 5)

	contested := filterShots(ps.ShotEvents, func(e nba.ShotEvent) bool { return e.Contested })

	if s, ok := share(ps.ShotEvents, func(e nba.ShotEvent) bool { return e.Contested }); ok {
		out = append(out, value("contested_share", s))
	} else {
		out = append(out, absent("contested_share"))
	}

	if len(contested) >= x.cfg.MinContestedAttempts {
		efg, _ := effectiveFG(contested)
		out = append(out, value("contested_efg", efg))
	} else {
		out = append(out, absent("contested_efg"))
	}

	if s, ok := share(ps.ShotEvents, x.lateClock); ok {
		out = append(out, value("late_clock_share", s))
	} else {
		out = append(out, absent("late_clock_share"))
	}

	late := filterShots(ps.ShotEvents, x.lateClock)
	if len(late) >= x.cfg.MinClutchAttempts {
		efg, _ := effectiveFG(late)
		out = append(out, value("late_clock_efg", efg))
	} else {
		out = append(out, absent("late_clock_efg"))
	}

	if d, ok := meanDistance(ps.ShotEvents); ok {
		out = append(out, value("avg_shot_distance", d))
	} else {
		out = append(out, absent("avg_shot_distance"))
	}

	return out
}
