package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

type fakeStatsProvider struct {
	playersBySeason map[string][]*nba.PlayerSeason
	failEventsFor   map[string]bool
}

func (f *fakeStatsProvider) FetchSeasonPlayers(ctx context.Context, seasonID string) ([]*nba.PlayerSeason, error) {
	players, ok := f.playersBySeason[seasonID]
	if !ok {
		return nil, fmt.Errorf("season %s not found", seasonID)
	}
	return players, nil
}

func (f *fakeStatsProvider) FetchShotEvents(ctx context.Context, seasonID, playerID string) ([]nba.ShotEvent, error) {
	if f.failEventsFor[playerID] {
		return nil, fmt.Errorf("upstream timeout")
	}
	return []nba.ShotEvent{{X: 1, Y: 1, Period: 1, ClockSeconds: 300, ShotClock: 10, Value: 2, Made: true}}, nil
}

func testIngestor(provider *fakeStatsProvider, configuredWorkers int) *Ingestor {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewIngestor(&config.Config{IngestWorkers: configuredWorkers}, provider, logger)
}

func rawSeason(playerID, seasonID string) *nba.PlayerSeason {
	return &nba.PlayerSeason{PlayerID: playerID, SeasonID: seasonID, PlayerName: "Player " + playerID}
}

func TestIngestClampsWorkerCount(t *testing.T) {
	// Worker count 0 from both the argument and config must not leave the
	// jobs channel without receivers.
	provider := &fakeStatsProvider{
		playersBySeason: map[string][]*nba.PlayerSeason{
			"2023-24": {rawSeason("p1", "2023-24"), rawSeason("p2", "2023-24")},
		},
	}
	ingestor := testIngestor(provider, 0)

	type result struct {
		population []*nba.PlayerSeason
		summary    *nba.RunSummary
	}
	done := make(chan result, 1)
	go func() {
		population, summary := ingestor.Ingest(context.Background(), []string{"2023-24"}, 0)
		done <- result{population, summary}
	}()

	select {
	case r := <-done:
		require.Len(t, r.population, 2)
		assert.Equal(t, 2, r.summary.Processed)
		for _, ps := range r.population {
			assert.NotEmpty(t, ps.ShotEvents)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Ingest did not return with a zero worker count")
	}
}

func TestIngestIsolatesShotEventFailures(t *testing.T) {
	provider := &fakeStatsProvider{
		playersBySeason: map[string][]*nba.PlayerSeason{
			"2023-24": {rawSeason("p1", "2023-24"), rawSeason("p2", "2023-24")},
		},
		failEventsFor: map[string]bool{"p2": true},
	}
	ingestor := testIngestor(provider, 2)

	population, summary := ingestor.Ingest(context.Background(), []string{"2023-24"}, 2)

	require.Len(t, population, 2, "a failed event fetch keeps the player")
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Exclusions["p2:2023-24"], "shot events")

	byID := make(map[string]*nba.PlayerSeason)
	for _, ps := range population {
		byID[ps.PlayerID] = ps
	}
	assert.NotEmpty(t, byID["p1"].ShotEvents)
	assert.Empty(t, byID["p2"].ShotEvents)
}

func TestIngestRecordsSeasonFetchFailures(t *testing.T) {
	provider := &fakeStatsProvider{
		playersBySeason: map[string][]*nba.PlayerSeason{
			"2023-24": {rawSeason("p1", "2023-24")},
		},
	}
	ingestor := testIngestor(provider, 2)

	population, summary := ingestor.Ingest(context.Background(), []string{"2023-24", "2013-14"}, 2)

	require.Len(t, population, 1)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Exclusions, "2013-14")
}
