package predictor

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		MinSeasonMinutes:     500,
		MinSeasonPossessions: 300,
		EliteUsageRate:       0.24,
		EliteScoreMin:        0.02,
		FragileScoreMax:      -0.05,
		LatentScoreMin:       0.03,
		DependenceCeiling:    0.45,
	}
}

func testModel() *nba.TrainedModel {
	return &nba.TrainedModel{
		Version:  "mv1",
		Features: []string{"pressure.contested_efg"},
		Weights:  []float64{1},
	}
}

func testPredictor() *Predictor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewPredictor(testConfig(), testModel(), logger)
}

// scoredSeason builds a player-season whose model score equals score, with
// all gates passing and the given dependence.
func scoredSeason(score, dependence float64) *nba.PlayerSeason {
	return &nba.PlayerSeason{
		PlayerID: "p1",
		SeasonID: "2023-24",
		Vector: &nba.StressVector{
			Groups: []nba.FeatureGroup{
				{Name: "pressure", Features: []nba.FeatureValue{
					{Name: "contested_efg", Value: score},
				}},
				{Name: "dependence", Features: []nba.FeatureValue{
					{Name: "score", Value: dependence},
				}},
				{Name: "gates", Features: []nba.FeatureValue{
					{Name: "minutes_gate", Value: 1},
					{Name: "usage_gate", Value: 1},
					{Name: "volume_gate", Value: 1},
				}},
			},
		},
	}
}

func setGate(ps *nba.PlayerSeason, name string, f nba.FeatureValue) {
	for gi, g := range ps.Vector.Groups {
		if g.Name != "gates" {
			continue
		}
		for fi, existing := range g.Features {
			if existing.Name == name {
				f.Name = name
				ps.Vector.Groups[gi].Features[fi] = f
			}
		}
	}
}

func TestRuleTableOrdering(t *testing.T) {
	tests := []struct {
		name       string
		score      float64
		dependence float64
		want       nba.Archetype
	}{
		{"stable elite", 0.05, 0.30, nba.ArchetypeStableElite},
		{"volatile elite over dependence ceiling", 0.05, 0.60, nba.ArchetypeVolatileElite},
		{"stable elite at ceiling boundary", 0.05, 0.45, nba.ArchetypeStableElite},
		{"elite at score boundary", 0.02, 0.30, nba.ArchetypeStableElite},
		{"fragile", -0.10, 0.30, nba.ArchetypeFragile},
		{"fragile boundary stays role dependent", -0.05, 0.30, nba.ArchetypeRoleDependent},
		{"middling score", 0.00, 0.30, nba.ArchetypeRoleDependent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := testPredictor().Predict(scoredSeason(tt.score, tt.dependence))
			require.NoError(t, err)
			assert.Equal(t, tt.want, pred.Archetype)
			assert.Equal(t, tt.score, pred.Score)
			assert.Equal(t, tt.dependence, pred.Dependence)
		})
	}
}

func TestMissingGateShortCircuits(t *testing.T) {
	// A huge score cannot rescue a season whose gate inputs are unknown.
	ps := scoredSeason(0.50, 0.10)
	setGate(ps, "usage_gate", nba.FeatureValue{Missing: true})

	pred, err := testPredictor().Predict(ps)
	require.NoError(t, err)
	assert.Equal(t, nba.ArchetypeInsufficientData, pred.Archetype)
	assert.Zero(t, pred.Score)
	require.Len(t, pred.Gates, 3)
}

func TestFailedGateStillScores(t *testing.T) {
	// Present-but-failed gates block the elite tiers, not the pipeline:
	// a strong score on sub-elite usage is exactly the latent candidate.
	ps := scoredSeason(0.05, 0.30)
	setGate(ps, "usage_gate", nba.FeatureValue{Value: 0.6})

	pred, err := testPredictor().Predict(ps)
	require.NoError(t, err)
	assert.Equal(t, nba.ArchetypeLatentCandidate, pred.Archetype)
	assert.Equal(t, 0.05, pred.Score)
}

func TestFailedGateBelowLatentFloor(t *testing.T) {
	ps := scoredSeason(0.01, 0.30)
	setGate(ps, "minutes_gate", nba.FeatureValue{Value: 0.4})

	pred, err := testPredictor().Predict(ps)
	require.NoError(t, err)
	assert.Equal(t, nba.ArchetypeRoleDependent, pred.Archetype)
}

func TestMissingModelFeature(t *testing.T) {
	ps := scoredSeason(0.05, 0.30)
	ps.Vector.Groups[0].Features[0].Missing = true

	pred, err := testPredictor().Predict(ps)
	require.NoError(t, err)
	assert.Equal(t, nba.ArchetypeInsufficientData, pred.Archetype)
}

func TestMissingDependence(t *testing.T) {
	ps := scoredSeason(0.05, 0)
	ps.Vector.Groups[1].Features[0].Missing = true

	pred, err := testPredictor().Predict(ps)
	require.NoError(t, err)
	assert.Equal(t, nba.ArchetypeInsufficientData, pred.Archetype)
}

func TestPredictErrors(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	p := NewPredictor(testConfig(), nil, logger)
	_, err := p.Predict(scoredSeason(0, 0))
	assert.ErrorIs(t, err, nba.ErrNoPrimaryModel)

	_, err = testPredictor().Predict(&nba.PlayerSeason{PlayerID: "p1", SeasonID: "2023-24"})
	require.Error(t, err)
	assert.True(t, nba.IsMissingData(err))
}

func TestPredictIsDeterministic(t *testing.T) {
	a, err := testPredictor().Predict(scoredSeason(0.04, 0.40))
	require.NoError(t, err)
	b, err := testPredictor().Predict(scoredSeason(0.04, 0.40))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestConfidenceIsBoundaryMargin(t *testing.T) {
	pred, err := testPredictor().Predict(scoredSeason(0.05, 0.30))
	require.NoError(t, err)
	// Nearest boundary is the latent floor at 0.03.
	assert.InDelta(t, 0.02, pred.Confidence, 1e-9)
}
