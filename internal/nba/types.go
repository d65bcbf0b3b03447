package nba

import (
	"context"
	"time"
)

// CacheProvider defines the interface for caching services
type CacheProvider interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ShotEvent is a single field-goal attempt with its location and context.
// Coordinates are in feet with the basket at the origin.
type ShotEvent struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Period         int     `json:"period"`
	ClockSeconds   float64 `json:"clock_seconds"` // game clock remaining in the period
	ShotClock      float64 `json:"shot_clock"`    // shot clock remaining at release
	Value          int     `json:"value"`         // 2 or 3
	Made           bool    `json:"made"`
	Assisted       bool    `json:"assisted"`
	Contested      bool    `json:"contested"`
}

// PlayerSeason holds one player's raw aggregates for one season, the shot
// events attached to it, and everything the pipeline derives from them.
// Re-running the pipeline replaces Vector/Label/Prediction wholesale; no
// partial updates.
type PlayerSeason struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	SeasonID   string `json:"season_id"`

	// Regular season aggregates
	GamesPlayed     int     `json:"games_played"`
	Minutes         float64 `json:"minutes"`
	Possessions     float64 `json:"possessions"`
	UsageRate       float64 `json:"usage_rate"`
	PointsPerPoss   float64 `json:"points_per_poss"`
	AssistRate      float64 `json:"assist_rate"`
	TurnoverRate    float64 `json:"turnover_rate"`
	FreeThrowRate   float64 `json:"free_throw_rate"`
	ThreePointRate  float64 `json:"three_point_rate"`
	EffectiveFGPct  float64 `json:"effective_fg_pct"`

	// Playoff aggregates
	PlayoffPossessions   float64 `json:"playoff_possessions"`
	PlayoffMinutes       float64 `json:"playoff_minutes"`
	PlayoffPointsPerPoss float64 `json:"playoff_points_per_poss"`
	OpponentDefRating    float64 `json:"opponent_def_rating"`

	// Career arc
	CareerYear       int     `json:"career_year"` // 1 for rookie season
	Age              float64 `json:"age"`
	PriorSeasonPPP   float64 `json:"prior_season_ppp"`
	HasPriorSeason   bool    `json:"has_prior_season"`

	ShotEvents []ShotEvent `json:"shot_events,omitempty"`

	// Derived
	Vector     *StressVector        `json:"vector,omitempty"`
	Label      *Label               `json:"label,omitempty"`
	Prediction *ArchetypePrediction `json:"prediction,omitempty"`
	LowSample  bool                 `json:"low_sample"`
}

// Key returns the stable identity of the player-season.
func (ps *PlayerSeason) Key() string {
	return ps.PlayerID + ":" + ps.SeasonID
}

// Label is the historical resilience outcome: playoff per-possession
// efficiency against the regular-season baseline, adjusted for opponent
// defensive strength. Present only for seasons with enough playoff sample.
type Label struct {
	Resilience      float64 `json:"resilience"`
	PlayoffAdjusted float64 `json:"playoff_adjusted"`
	Baseline        float64 `json:"baseline"`
}

// FeatureSet is the versioned, ordered list of feature identifiers that
// survived recursive elimination, together with the cross-validation audit
// trail that justified it. Never mutated after creation.
type FeatureSet struct {
	Version   string       `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	Features  []string     `json:"features"`
	Rounds    []RoundScore `json:"rounds,omitempty"`
}

// RoundScore records one elimination round for the audit trail.
type RoundScore struct {
	Remaining []string `json:"remaining"`
	Dropped   string   `json:"dropped,omitempty"`
	CVMean    float64  `json:"cv_mean"`
	CVStd     float64  `json:"cv_std"`
}

// Calibration is the per-fold validation score distribution of a trained
// model. Surfaced whole because sample sizes are small and the spread
// matters as much as the mean.
type Calibration struct {
	FoldScores []float64 `json:"fold_scores"`
	Mean       float64   `json:"mean"`
	Std        float64   `json:"std"`
	Min        float64   `json:"min"`
	Max        float64   `json:"max"`
}

// TrainedModel is a fitted linear model bound to the FeatureSet version it
// was trained with. Older models are retained for audit and never mutated;
// exactly one is primary at a time.
type TrainedModel struct {
	Version           string             `json:"version"`
	FeatureSetVersion string             `json:"feature_set_version"`
	Features          []string           `json:"features"`
	Weights           []float64          `json:"weights"`
	Intercept         float64            `json:"intercept"`
	Importances       map[string]float64 `json:"importances"`
	Calibration       Calibration        `json:"calibration"`
	TrainedAt         time.Time          `json:"trained_at"`
	Primary           bool               `json:"primary"`
}

// Score applies the model to a feature row ordered per m.Features.
func (m *TrainedModel) Score(values []float64) (float64, error) {
	if len(values) != len(m.Weights) {
		return 0, &SchemaMismatchError{
			Expected: len(m.Weights),
			Got:      len(values),
			Detail:   "model input row does not match trained weight count",
		}
	}
	score := m.Intercept
	for i, v := range values {
		score += m.Weights[i] * v
	}
	return score, nil
}

// TrainingRow is one labeled player-season flattened against the full
// feature schema.
type TrainingRow struct {
	PlayerID string
	SeasonID string
	Values   []FeatureValue
	Label    float64
}

// RunSummary aggregates per-entity outcomes of a batch stage so a run ends
// with a completeness report instead of an opaque pass/fail.
type RunSummary struct {
	Stage      string            `json:"stage"`
	Processed  int               `json:"processed"`
	Labeled    int               `json:"labeled"`
	LowSample  int               `json:"low_sample"`
	Failed     int               `json:"failed"`
	Exclusions map[string]string `json:"exclusions,omitempty"` // player-season key -> reason
	StartedAt  time.Time         `json:"started_at"`
	Duration   time.Duration     `json:"duration"`
}

// RecordExclusion notes why a player-season was left out of a stage.
func (s *RunSummary) RecordExclusion(key, reason string) {
	if s.Exclusions == nil {
		s.Exclusions = make(map[string]string)
	}
	s.Exclusions[key] = reason
}
