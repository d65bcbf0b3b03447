package features

import (
	"math"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
)

// shotDistance is the release distance in feet from the basket.
func shotDistance(e nba.ShotEvent) float64 {
	return math.Hypot(e.X, e.Y)
}

// filterShots returns the events satisfying keep, preserving order.
func filterShots(events []nba.ShotEvent, keep func(nba.ShotEvent) bool) []nba.ShotEvent {
	var out []nba.ShotEvent
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// effectiveFG computes eFG% over a set of attempts: (makes + 0.5*made
// threes) / attempts. Returns false when there are no attempts.
func effectiveFG(events []nba.ShotEvent) (float64, bool) {
	if len(events) == 0 {
		return 0, false
	}
	var made, madeThrees float64
	for _, e := range events {
		if e.Made {
			made++
			if e.Value == 3 {
				madeThrees++
			}
		}
	}
	return (made + 0.5*madeThrees) / float64(len(events)), true
}

// share is the fraction of events satisfying pred. Returns false when the
// event list is empty.
func share(events []nba.ShotEvent, pred func(nba.ShotEvent) bool) (float64, bool) {
	if len(events) == 0 {
		return 0, false
	}
	var n float64
	for _, e := range events {
		if pred(e) {
			n++
		}
	}
	return n / float64(len(events)), true
}

// meanDistance averages release distance. Returns false on no attempts.
func meanDistance(events []nba.ShotEvent) (float64, bool) {
	if len(events) == 0 {
		return 0, false
	}
	var sum float64
	for _, e := range events {
		sum += shotDistance(e)
	}
	return sum / float64(len(events)), true
}

// madeShots returns only the converted attempts.
func madeShots(events []nba.ShotEvent) []nba.ShotEvent {
	return filterShots(events, func(e nba.ShotEvent) bool { return e.Made })
}
