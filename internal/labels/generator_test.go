package labels

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

func testGenerator() *Generator {
	cfg := &config.Config{
		MinPlayoffPossessions:  200,
		MinSeasonMinutes:       500,
		LeagueAvgDefRating:     112,
		DefenseAdjustmentScale: 0.5,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewGenerator(cfg, logger)
}

func labeledSeason() *nba.PlayerSeason {
	return &nba.PlayerSeason{
		PlayerID:             "p1",
		SeasonID:             "2022-23",
		Minutes:              2000,
		Possessions:          1400,
		PointsPerPoss:        1.10,
		PlayoffPossessions:   350,
		PlayoffPointsPerPoss: 1.05,
		OpponentDefRating:    108,
	}
}

func TestGenerateAdjustsForDefense(t *testing.T) {
	g := testGenerator()

	label, err := g.Generate(labeledSeason())
	require.NoError(t, err)
	require.NotNil(t, label)

	// Opponent four points tougher than league average at half scale:
	// +0.02 points per possession credited back.
	assert.InDelta(t, 1.07, label.PlayoffAdjusted, 1e-9)
	assert.InDelta(t, -0.03, label.Resilience, 1e-9)
	assert.InDelta(t, 1.10, label.Baseline, 1e-9)
}

func TestGenerateEasySlateDebitsEfficiency(t *testing.T) {
	g := testGenerator()

	ps := labeledSeason()
	ps.OpponentDefRating = 116 // softer than average
	label, err := g.Generate(ps)
	require.NoError(t, err)
	assert.InDelta(t, 1.03, label.PlayoffAdjusted, 1e-9)
}

func TestGenerateNoPlayoffSampleIsNotAnError(t *testing.T) {
	g := testGenerator()

	ps := labeledSeason()
	ps.PlayoffPossessions = 199
	label, err := g.Generate(ps)
	require.NoError(t, err)
	assert.Nil(t, label, "sub-threshold playoff sample means no label, not a failure")
}

func TestGenerateLowSample(t *testing.T) {
	g := testGenerator()

	ps := labeledSeason()
	ps.Minutes = 200
	_, err := g.Generate(ps)
	assert.ErrorIs(t, err, nba.ErrLowSample)
}

func TestGenerateMissingData(t *testing.T) {
	g := testGenerator()

	ps := labeledSeason()
	ps.Possessions = 0
	_, err := g.Generate(ps)
	require.Error(t, err)
	assert.True(t, nba.IsMissingData(err))

	ps = labeledSeason()
	ps.OpponentDefRating = 0
	_, err = g.Generate(ps)
	require.Error(t, err)
	assert.True(t, nba.IsMissingData(err))
}

func TestGenerateBatchIsolatesFailures(t *testing.T) {
	g := testGenerator()

	good := labeledSeason()
	noPlayoffs := labeledSeason()
	noPlayoffs.PlayerID = "p2"
	noPlayoffs.PlayoffPossessions = 0
	broken := labeledSeason()
	broken.PlayerID = "p3"
	broken.OpponentDefRating = 0

	summary := g.GenerateBatch([]*nba.PlayerSeason{good, noPlayoffs, broken})

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Labeled)
	assert.Equal(t, 1, summary.Failed)
	assert.NotNil(t, good.Label)
	assert.Nil(t, noPlayoffs.Label)
	assert.Nil(t, broken.Label)
	assert.Contains(t, summary.Exclusions, "p2:2022-23")
	assert.Contains(t, summary.Exclusions, "p3:2022-23")
}
