package features

import (
	"context"
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
		MinSeasonMinutes:      500,
		MinSeasonPossessions:  300,
		MinPlayoffPossessions: 200,
		EliteUsageRate:        0.24,
		RimDistanceFt:         4.0,
		ClutchWindowSeconds:   300,
		LateShotClockSeconds:  4,
		MinClutchAttempts:     2,
		MinRimAttempts:        2,
		MinContestedAttempts:  2,
		DependenceUsageNorm:   0.30,
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testPlayerSeason() *nba.PlayerSeason {
	return &nba.PlayerSeason{
		PlayerID:       "p1",
		PlayerName:     "Test Wing",
		SeasonID:       "2023-24",
		GamesPlayed:    70,
		Minutes:        2100,
		Possessions:    1500,
		UsageRate:      0.26,
		PointsPerPoss:  1.12,
		AssistRate:     0.18,
		TurnoverRate:   0.11,
		FreeThrowRate:  0.28,
		ThreePointRate: 0.38,
		EffectiveFGPct: 0.55,
		CareerYear:     4,
		Age:            24.5,
		HasPriorSeason: true,
		PriorSeasonPPP: 1.05,
		ShotEvents: []nba.ShotEvent{
			{X: 0, Y: 1, Period: 1, ClockSeconds: 500, ShotClock: 12, Value: 2, Made: true, Assisted: false, Contested: true},
			{X: 2, Y: 2, Period: 2, ClockSeconds: 400, ShotClock: 3, Value: 2, Made: false, Contested: true},
			{X: 22, Y: 5, Period: 4, ClockSeconds: 120, ShotClock: 8, Value: 3, Made: true, Assisted: true, Contested: false},
			{X: 23, Y: 2, Period: 4, ClockSeconds: 45, ShotClock: 2, Value: 3, Made: false, Contested: true},
			{X: 1, Y: 0, Period: 3, ClockSeconds: 300, ShotClock: 10, Value: 2, Made: true, Assisted: true, Contested: false},
		},
	}
}

func TestSchemaIsStableAndQualified(t *testing.T) {
	e := NewExtractor(testConfig(), testLogger())
	schema := e.Schema()

	require.Len(t, schema, 28)
	assert.Equal(t, "creation.usage_rate", schema[0])
	assert.Equal(t, "gates.volume_gate", schema[len(schema)-1])

	// Schema is a copy; callers cannot corrupt the contract.
	schema[0] = "mutated"
	assert.Equal(t, "creation.usage_rate", e.Schema()[0])
}

func TestExtractMatchesSchema(t *testing.T) {
	e := NewExtractor(testConfig(), testLogger())
	vec, err := e.Extract(testPlayerSeason())
	require.NoError(t, err)
	require.NoError(t, vec.CheckSchema(e.Schema()))
}

func TestExtractIsDeterministic(t *testing.T) {
	// Two identical raw records must produce identical vectors.
	e := NewExtractor(testConfig(), testLogger())

	a, err := e.Extract(testPlayerSeason())
	require.NoError(t, err)
	b, err := e.Extract(testPlayerSeason())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestZeroPossessionsYieldsMissingNotZero(t *testing.T) {
	e := NewExtractor(testConfig(), testLogger())

	ps := testPlayerSeason()
	ps.Minutes = 0
	ps.Possessions = 0
	ps.GamesPlayed = 0
	ps.ShotEvents = nil

	vec, err := e.Extract(ps)
	require.NoError(t, err, "near-zero seasons must not divide by zero")
	require.NoError(t, vec.CheckSchema(e.Schema()))

	for _, f := range vec.Flatten() {
		switch f.Name {
		case "trajectory.career_year", "trajectory.age":
			assert.False(t, f.Missing, "%s derives from identity, not volume", f.Name)
		default:
			assert.True(t, f.Missing, "%s should be missing, got %v", f.Name, f.Value)
		}
	}
}

func TestRookieHasMissingPriorDelta(t *testing.T) {
	e := NewExtractor(testConfig(), testLogger())

	ps := testPlayerSeason()
	ps.HasPriorSeason = false
	ps.CareerYear = 1

	vec, err := e.Extract(ps)
	require.NoError(t, err)

	flat := vec.Flatten()
	sub, err := nba.Subset(flat, []string{"trajectory.ppp_delta_prior"})
	require.NoError(t, err)
	assert.True(t, sub[0].Missing)
}

func TestSparseClutchSampleIsMissing(t *testing.T) {
	cfg := testConfig()
	cfg.MinClutchAttempts = 50
	e := NewExtractor(cfg, testLogger())

	vec, err := e.Extract(testPlayerSeason())
	require.NoError(t, err)

	sub, err := nba.Subset(vec.Flatten(), []string{"leverage.clutch_efg", "leverage.clutch_share"})
	require.NoError(t, err)
	assert.True(t, sub[0].Missing, "efficiency needs sample size")
	assert.False(t, sub[1].Missing, "share does not")
}

func TestMarkLowSample(t *testing.T) {
	e := NewExtractor(testConfig(), testLogger())

	ps := testPlayerSeason()
	assert.False(t, e.MarkLowSample(ps))

	ps.Minutes = 100
	assert.True(t, e.MarkLowSample(ps))
	assert.True(t, ps.LowSample)
}

func TestExtractBatchIsolatesFailures(t *testing.T) {
	e := NewExtractor(testConfig(), testLogger())

	good := testPlayerSeason()
	bad := testPlayerSeason()
	bad.PlayerID = "" // no identity, extraction must fail

	summary := e.ExtractBatch(context.Background(), []*nba.PlayerSeason{good, bad}, 2)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Failed)
	assert.NotNil(t, good.Vector, "healthy entity must survive a sibling failure")
	assert.Nil(t, bad.Vector)
	assert.Len(t, summary.Exclusions, 1)
}

func TestDependenceScoreUsesConfiguredNorm(t *testing.T) {
	// Fixture shot diet: 3 makes, 2 assisted, 1 an assisted three out of
	// 5 attempts. At usage 0.26 with a 0.30 norm the usage term is 2/15.
	e := NewExtractor(testConfig(), testLogger())
	vec, err := e.Extract(testPlayerSeason())
	require.NoError(t, err)

	sub, err := nba.Subset(vec.Flatten(), []string{"dependence.score"})
	require.NoError(t, err)
	require.False(t, sub[0].Missing)
	want := 0.5*(2.0/3.0) + 0.3*0.2 + 0.2*(1.0-0.26/0.30)
	assert.InDelta(t, want, sub[0].Value, 1e-9)

	// Lowering the norm saturates the usage term for the same season.
	cfg := testConfig()
	cfg.DependenceUsageNorm = 0.26
	vec, err = NewExtractor(cfg, testLogger()).Extract(testPlayerSeason())
	require.NoError(t, err)
	sub, err = nba.Subset(vec.Flatten(), []string{"dependence.score"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5*(2.0/3.0)+0.3*0.2, sub[0].Value, 1e-9)
}

func TestGateIndicatorsSaturateAtThreshold(t *testing.T) {
	e := NewExtractor(testConfig(), testLogger())

	ps := testPlayerSeason() // usage 0.26 >= 0.24, minutes and possessions above thresholds
	vec, err := e.Extract(ps)
	require.NoError(t, err)

	sub, err := nba.Subset(vec.Flatten(), []string{"gates.minutes_gate", "gates.usage_gate", "gates.volume_gate"})
	require.NoError(t, err)
	for _, g := range sub {
		require.False(t, g.Missing)
		assert.Equal(t, 1.0, g.Value, "%s should saturate when the threshold is cleared", g.Name)
	}

	ps.UsageRate = 0.12
	vec, err = e.Extract(ps)
	require.NoError(t, err)
	sub, err = nba.Subset(vec.Flatten(), []string{"gates.usage_gate"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, sub[0].Value, 1e-9)
}
