package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// ShotEventFetcher is the slice of the provider interface the ingestor
// needs for the per-player event pass.
type ShotEventFetcher interface {
	FetchSeasonPlayers(ctx context.Context, seasonID string) ([]*nba.PlayerSeason, error)
	FetchShotEvents(ctx context.Context, seasonID, playerID string) ([]nba.ShotEvent, error)
}

// Ingestor collects raw player-season records and their shot events from
// the provider. The per-player event pass runs across a worker pool over
// disjoint players; a failed fetch for one player is recorded and the
// player kept with an empty event list, so one bad response never sinks a
// season.
type Ingestor struct {
	cfg      *config.Config
	provider ShotEventFetcher
	logger   *logrus.Logger
}

func NewIngestor(cfg *config.Config, provider ShotEventFetcher, logger *logrus.Logger) *Ingestor {
	return &Ingestor{cfg: cfg, provider: provider, logger: logger}
}

// Ingest fetches the requested seasons and returns the assembled
// population with a completeness summary.
func (s *Ingestor) Ingest(ctx context.Context, seasonIDs []string, workers int) ([]*nba.PlayerSeason, *nba.RunSummary) {
	if workers < 1 {
		workers = s.cfg.IngestWorkers
	}
	if workers < 1 {
		// Zero receivers would leave the jobs channel send blocked forever.
		workers = 1
	}
	summary := &nba.RunSummary{Stage: "ingest", StartedAt: time.Now()}

	var population []*nba.PlayerSeason
	for _, seasonID := range seasonIDs {
		players, err := s.provider.FetchSeasonPlayers(ctx, seasonID)
		if err != nil {
			summary.Failed++
			summary.RecordExclusion(seasonID, err.Error())
			s.logger.WithField("season_id", seasonID).Errorf("Season fetch failed: %v", err)
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"season_id": seasonID,
			"players":   len(players),
		}).Info("Fetched season aggregates")
		population = append(population, players...)
	}

	s.attachShotEvents(ctx, population, workers, summary)

	summary.Processed = len(population)
	summary.Duration = time.Since(summary.StartedAt)
	s.logger.WithFields(logrus.Fields{
		"players":  summary.Processed,
		"failed":   summary.Failed,
		"duration": summary.Duration.String(),
	}).Info("Ingestion complete")
	return population, summary
}

func (s *Ingestor) attachShotEvents(ctx context.Context, population []*nba.PlayerSeason, workers int, summary *nba.RunSummary) {
	jobs := make(chan *nba.PlayerSeason)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ps := range jobs {
				events, err := s.provider.FetchShotEvents(ctx, ps.SeasonID, ps.PlayerID)
				if err != nil {
					mu.Lock()
					summary.Failed++
					summary.RecordExclusion(ps.Key(), "shot events: "+err.Error())
					mu.Unlock()
					s.logger.WithFields(logrus.Fields{
						"player_id": ps.PlayerID,
						"season_id": ps.SeasonID,
					}).Warnf("Shot event fetch failed: %v", err)
					continue
				}
				ps.ShotEvents = events
			}
		}()
	}

	for _, ps := range population {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- ps:
		}
	}
	close(jobs)
	wg.Wait()
}
