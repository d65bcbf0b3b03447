package riskmatrix

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

func testValidator() *Validator {
	cfg := &config.Config{
		DependenceBoundary: 0.45,
		ResilienceBoundary: -0.02,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewValidator(cfg, logger)
}

func TestPlaceQuadrants(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name       string
		dependence float64
		resilience float64
		want       Quadrant
	}{
		{"stable", 0.20, 0.05, QuadrantStable},
		{"system proof", 0.60, 0.05, QuadrantSystemProof},
		{"volatile", 0.20, -0.10, QuadrantVolatile},
		{"fragile", 0.60, -0.10, QuadrantFragile},
		{"dependence boundary is high side", 0.45, 0.05, QuadrantSystemProof},
		{"resilience boundary is low side", 0.20, -0.02, QuadrantVolatile},
		{"both boundaries", 0.45, -0.02, QuadrantFragile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Place(tt.dependence, tt.resilience))
		})
	}
}

func TestBoundaryCrossingFlipsQuadrant(t *testing.T) {
	v := testValidator()

	// Deep in fragile territory.
	assert.Equal(t, QuadrantFragile, v.Place(0.70, -0.10))
	// Same dependence, resilience nudged across the boundary.
	assert.Equal(t, QuadrantSystemProof, v.Place(0.70, 0.01))
	// Same resilience, dependence nudged across the boundary.
	assert.Equal(t, QuadrantVolatile, v.Place(0.30, -0.10))
}

type fixture struct {
	ps   *nba.PlayerSeason
	pred *nba.ArchetypePrediction
}

func fakeWorld(fixtures map[string]fixture) (LookupFunc, PredictFunc) {
	lookup := func(playerID, seasonID string) (*nba.PlayerSeason, error) {
		f, ok := fixtures[playerID]
		if !ok {
			return nil, fmt.Errorf("player %s not in dataset", playerID)
		}
		return f.ps, nil
	}
	predict := func(ps *nba.PlayerSeason) (*nba.ArchetypePrediction, error) {
		f := fixtures[ps.PlayerID]
		if f.pred == nil {
			return nil, fmt.Errorf("model failure")
		}
		return f.pred, nil
	}
	return lookup, predict
}

func TestRunCompletesThroughFailures(t *testing.T) {
	fixtures := map[string]fixture{
		"fragile-star": {
			ps:   &nba.PlayerSeason{PlayerID: "fragile-star", SeasonID: "2018-19"},
			pred: &nba.ArchetypePrediction{Archetype: nba.ArchetypeFragile, Score: -0.10, Dependence: 0.70},
		},
		"resilient-wing": {
			ps:   &nba.PlayerSeason{PlayerID: "resilient-wing", SeasonID: "2019-20"},
			pred: &nba.ArchetypePrediction{Archetype: nba.ArchetypeStableElite, Score: 0.06, Dependence: 0.25},
		},
		"wrong-quadrant": {
			ps:   &nba.PlayerSeason{PlayerID: "wrong-quadrant", SeasonID: "2020-21"},
			pred: &nba.ArchetypePrediction{Archetype: nba.ArchetypeRoleDependent, Score: 0.01, Dependence: 0.30},
		},
		"broken-model": {
			ps: &nba.PlayerSeason{PlayerID: "broken-model", SeasonID: "2020-21"},
		},
		"thin-sample": {
			ps:   &nba.PlayerSeason{PlayerID: "thin-sample", SeasonID: "2021-22"},
			pred: &nba.ArchetypePrediction{Archetype: nba.ArchetypeInsufficientData},
		},
	}
	lookup, predict := fakeWorld(fixtures)

	cases := []Case{
		{CaseID: "c1", PlayerID: "fragile-star", SeasonID: "2018-19", Expected: QuadrantFragile},
		{CaseID: "c2", PlayerID: "resilient-wing", SeasonID: "2019-20", Expected: QuadrantStable},
		{CaseID: "c3", PlayerID: "wrong-quadrant", SeasonID: "2020-21", Expected: QuadrantFragile},
		{CaseID: "c4", PlayerID: "missing-player", SeasonID: "2017-18", Expected: QuadrantStable},
		{CaseID: "c5", PlayerID: "broken-model", SeasonID: "2020-21", Expected: QuadrantStable},
		{CaseID: "c6", PlayerID: "thin-sample", SeasonID: "2021-22", Expected: QuadrantVolatile},
	}

	report := testValidator().Run(cases, lookup, predict)

	require.Len(t, report.Results, len(cases), "every case is reported, errors included")
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 4, report.Failed)
	assert.False(t, report.AllPassed())

	byID := make(map[string]Result)
	for _, r := range report.Results {
		byID[r.CaseID] = r
	}

	assert.True(t, byID["c1"].Passed)
	assert.Equal(t, QuadrantFragile, byID["c1"].Actual)
	assert.True(t, byID["c2"].Passed)

	assert.False(t, byID["c3"].Passed)
	assert.Equal(t, QuadrantStable, byID["c3"].Actual, "coordinates still reported on a miss")

	assert.Contains(t, byID["c4"].Err, "lookup")
	assert.Contains(t, byID["c5"].Err, "predict")
	assert.Contains(t, byID["c6"].Err, "insufficient data")
}

func TestAllPassedRequiresResults(t *testing.T) {
	report := &Report{}
	assert.False(t, report.AllPassed(), "an empty run is not a passing run")

	report.Results = append(report.Results, Result{Passed: true})
	report.Passed = 1
	assert.True(t, report.AllPassed())
}
