package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/internal/services"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// StatsProvider is the read interface over the external statistics source.
// The pipeline core never talks HTTP directly; it consumes this.
type StatsProvider interface {
	FetchSeasonPlayers(ctx context.Context, seasonID string) ([]*nba.PlayerSeason, error)
	FetchShotEvents(ctx context.Context, seasonID, playerID string) ([]nba.ShotEvent, error)
}

// StatsClient implements StatsProvider against a stats-API-shaped HTTP
// source, with a per-host rate limiter, a circuit breaker, bounded retry
// with backoff, and the content-addressed response cache in front.
type StatsClient struct {
	httpClient *http.Client
	cfg        *config.Config
	cache      nba.CacheProvider
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
	forceFresh bool
}

func NewStatsClient(cfg *config.Config, cache nba.CacheProvider, logger *logrus.Logger) *StatsClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "stats-provider",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.CircuitBreakerThreshold)
		},
		Timeout: 30 * time.Second,
	})

	return &StatsClient{
		httpClient: &http.Client{Timeout: cfg.ProviderTimeout},
		cfg:        cfg,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(cfg.ProviderRateLimit), cfg.ProviderRateLimit),
		breaker:    breaker,
		logger:     logger,
	}
}

// SetForceRefresh bypasses cache reads (writes still happen), the declared
// overwrite path for stale data.
func (c *StatsClient) SetForceRefresh(force bool) {
	c.forceFresh = force
}

// Provider response structures
type playerSeasonResponse struct {
	Players []struct {
		ID         string  `json:"id"`
		Name       string  `json:"name"`
		Age        float64 `json:"age"`
		CareerYear int     `json:"career_year"`
		Regular    struct {
			Games          int     `json:"games"`
			Minutes        float64 `json:"minutes"`
			Possessions    float64 `json:"possessions"`
			UsageRate      float64 `json:"usage_rate"`
			PointsPerPoss  float64 `json:"points_per_poss"`
			AssistRate     float64 `json:"assist_rate"`
			TurnoverRate   float64 `json:"turnover_rate"`
			FreeThrowRate  float64 `json:"free_throw_rate"`
			ThreePointRate float64 `json:"three_point_rate"`
			EffectiveFGPct float64 `json:"efg_pct"`
		} `json:"regular"`
		Playoffs struct {
			Minutes           float64 `json:"minutes"`
			Possessions       float64 `json:"possessions"`
			PointsPerPoss     float64 `json:"points_per_poss"`
			OpponentDefRating float64 `json:"opponent_def_rating"`
		} `json:"playoffs"`
		Prior *struct {
			PointsPerPoss float64 `json:"points_per_poss"`
		} `json:"prior,omitempty"`
	} `json:"players"`
}

type shotEventsResponse struct {
	Events []nba.ShotEvent `json:"events"`
}

// FetchSeasonPlayers returns the raw aggregates for every player in a
// season.
func (c *StatsClient) FetchSeasonPlayers(ctx context.Context, seasonID string) ([]*nba.PlayerSeason, error) {
	endpoint := fmt.Sprintf("/seasons/%s/players", url.PathEscape(seasonID))
	params := map[string]string{"season": seasonID}

	var resp playerSeasonResponse
	if err := c.getJSON(ctx, seasonID, endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("fetch season players %s: %w", seasonID, err)
	}

	out := make([]*nba.PlayerSeason, 0, len(resp.Players))
	for _, p := range resp.Players {
		ps := &nba.PlayerSeason{
			PlayerID:             p.ID,
			PlayerName:           p.Name,
			SeasonID:             seasonID,
			Age:                  p.Age,
			CareerYear:           p.CareerYear,
			GamesPlayed:          p.Regular.Games,
			Minutes:              p.Regular.Minutes,
			Possessions:          p.Regular.Possessions,
			UsageRate:            p.Regular.UsageRate,
			PointsPerPoss:        p.Regular.PointsPerPoss,
			AssistRate:           p.Regular.AssistRate,
			TurnoverRate:         p.Regular.TurnoverRate,
			FreeThrowRate:        p.Regular.FreeThrowRate,
			ThreePointRate:       p.Regular.ThreePointRate,
			EffectiveFGPct:       p.Regular.EffectiveFGPct,
			PlayoffMinutes:       p.Playoffs.Minutes,
			PlayoffPossessions:   p.Playoffs.Possessions,
			PlayoffPointsPerPoss: p.Playoffs.PointsPerPoss,
			OpponentDefRating:    p.Playoffs.OpponentDefRating,
		}
		if p.Prior != nil {
			ps.HasPriorSeason = true
			ps.PriorSeasonPPP = p.Prior.PointsPerPoss
		}
		out = append(out, ps)
	}
	return out, nil
}

// FetchShotEvents returns the shot-location event list for one player.
func (c *StatsClient) FetchShotEvents(ctx context.Context, seasonID, playerID string) ([]nba.ShotEvent, error) {
	endpoint := fmt.Sprintf("/seasons/%s/players/%s/shots", url.PathEscape(seasonID), url.PathEscape(playerID))
	params := map[string]string{"season": seasonID, "player": playerID}

	var resp shotEventsResponse
	if err := c.getJSON(ctx, seasonID, endpoint, params, &resp); err != nil {
		return nil, fmt.Errorf("fetch shot events %s/%s: %w", seasonID, playerID, err)
	}
	return resp.Events, nil
}

// getJSON runs one cached, rate-limited, circuit-broken GET with bounded
// retry.
func (c *StatsClient) getJSON(ctx context.Context, seasonID, endpoint string, params map[string]string, dest interface{}) error {
	key := services.ResponseCacheKey(seasonID, endpoint, params)

	if c.cache != nil && !c.forceFresh {
		if err := c.cache.Get(ctx, key, dest); err == nil {
			return nil
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.ProviderMaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			c.logger.WithFields(logrus.Fields{
				"endpoint": endpoint,
				"attempt":  attempt,
			}).Warnf("Retrying provider request after %v: %v", backoff, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		body, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doRequest(ctx, endpoint)
		})
		if err != nil {
			lastErr = err
			continue
		}

		if err := json.Unmarshal(body.([]byte), dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}

		if c.cache != nil {
			if err := c.cache.Set(ctx, key, dest, c.cfg.ResponseCacheTTL); err != nil {
				c.logger.Warnf("Failed to cache provider response: %v", err)
			}
		}
		return nil
	}
	return fmt.Errorf("provider request failed after %d attempts: %w", c.cfg.ProviderMaxRetries+1, lastErr)
}

func (c *StatsClient) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ProviderBaseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.ProviderAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.ProviderAPIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
