package features

import (
	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// physicalityExtractor measures rim pressure. Jump-shot diets travel
// poorly into the playoffs; paint touches survive.
type physicalityExtractor struct {
	cfg *config.Config
}

func (x *physicalityExtractor) group() string { return "physicality" }

func (x *physicalityExtractor) names() []string {
	return []string{"rim_attempt_rate", "rim_finish_pct", "rim_pressure_per36"}
}

func (x *physicalityExtractor) atRim(e nba.ShotEvent) bool {
	return shotDistance(e) <= x.cfg.RimDistanceFt
}

func (x *physicalityExtractor) extract(ps *nba.PlayerSeason) []nba.FeatureValue {
	out := make([]nba.FeatureValue, 0, 3)

	if s, ok := share(ps.ShotEvents, x.atRim); ok {
		out = append(out, value("rim_attempt_rate", s))
	} else {
		out = append(out, absent("rim_attempt_rate"))
	}

	rim := filterShots(ps.ShotEvents, x.atRim)
	if len(rim) >= x.cfg.MinRimAttempts {
		var made float64
		for _, e := range rim {
			if e.Made {
				made++
			}
		}
		out = append(out, value("rim_finish_pct", made/float64(len(rim))))
	} else {
		out = append(out, absent("rim_finish_pct"))
	}

	if ps.Minutes > 0 && len(ps.ShotEvents) > 0 {
		out = append(out, value("rim_pressure_per36", float64(len(rim))/ps.Minutes*36))
	} else {
		out = append(out, absent("rim_pressure_per36"))
	}

	return out
}
