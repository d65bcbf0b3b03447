package features

import (
	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// creationExtractor measures how much of a player's offense is
// self-generated. Players who create their own shots keep their role when
// playoff defenses take away scripted actions.
type creationExtractor struct {
	cfg *config.Config
}

func (x *creationExtractor) group() string { return "creation" }

func (x *creationExtractor) names() []string {
	return []string{"usage_rate", "assist_rate", "unassisted_share", "creation_volume"}
}

func (x *creationExtractor) extract(ps *nba.PlayerSeason) []nba.FeatureValue {
	out := make([]nba.FeatureValue, 0, 4)

	if ps.Minutes <= 0 || ps.Possessions <= 0 {
		out = append(out, absent("usage_rate"), absent("assist_rate"))
	} else {
		out = append(out, value("usage_rate", ps.UsageRate))
		out = append(out, value("assist_rate", ps.AssistRate))
	}

	made := madeShots(ps.ShotEvents)
	if unassisted, ok := share(made, func(e nba.ShotEvent) bool { return !e.Assisted }); ok {
		out = append(out, value("unassisted_share", unassisted))
	} else {
		out = append(out, absent("unassisted_share"))
	}

	// Usage scaled by floor time: separates high-usage starters from
	// garbage-time gunners with the same rate.
	if ps.GamesPlayed > 0 && ps.Minutes > 0 && ps.Possessions > 0 {
		out = append(out, value("creation_volume", ps.UsageRate*ps.Minutes/float64(ps.GamesPlayed)))
	} else {
		out = append(out, absent("creation_volume"))
	}

	return out
}
