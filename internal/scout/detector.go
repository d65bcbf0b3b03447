package scout

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// Candidate is one flagged latent star: a player-season whose predicted
// resilience percentile exceeds its current-performance percentile by more
// than the configured gap. The divergence is the whole signal — neither
// percentile alone means anything here.
type Candidate struct {
	PlayerID      string   `json:"player_id"`
	PlayerName    string   `json:"player_name"`
	SeasonID      string   `json:"season_id"`
	Bucket        string   `json:"bucket"`
	PredictedPct  float64  `json:"predicted_pct"`
	CurrentPct    float64  `json:"current_pct"`
	Divergence    float64  `json:"divergence"`
	Contributing  []string `json:"contributing_groups"`
}

// Detector scans a scored population for latent star profiles.
type Detector struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func NewDetector(cfg *config.Config, logger *logrus.Logger) *Detector {
	return &Detector{cfg: cfg, logger: logger}
}

// Detect ranks latent star candidates by descending divergence. Percentile
// ranks are computed within usage buckets so bench wings are compared to
// bench wings, not to heliocentric guards. The gap comparison is strictly
// exclusive: a divergence exactly at the threshold does not flag.
func (d *Detector) Detect(population []*nba.PlayerSeason) ([]Candidate, *nba.RunSummary) {
	summary := &nba.RunSummary{Stage: "scout", StartedAt: time.Now()}

	buckets := make(map[string][]*nba.PlayerSeason)
	for _, ps := range population {
		summary.Processed++
		if ps.Vector == nil || ps.Prediction == nil || ps.Prediction.Archetype == nba.ArchetypeInsufficientData {
			summary.RecordExclusion(ps.Key(), "no scored prediction")
			continue
		}
		if ps.Possessions <= 0 {
			summary.RecordExclusion(ps.Key(), "no possessions")
			continue
		}
		buckets[d.bucket(ps)] = append(buckets[d.bucket(ps)], ps)
	}

	var out []Candidate
	for name, members := range buckets {
		out = append(out, d.detectBucket(name, members, summary)...)
	}

	// Descending divergence; identity tie-break keeps output stable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Divergence != out[j].Divergence {
			return out[i].Divergence > out[j].Divergence
		}
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].SeasonID < out[j].SeasonID
	})

	summary.Duration = time.Since(summary.StartedAt)
	d.logger.WithFields(logrus.Fields{
		"population": summary.Processed,
		"flagged":    len(out),
	}).Info("Latent star scan complete")
	return out, summary
}

// bucket assigns a usage-tier role bucket.
func (d *Detector) bucket(ps *nba.PlayerSeason) string {
	switch {
	case ps.UsageRate >= d.cfg.UsageTierHigh:
		return "high_usage"
	case ps.UsageRate >= d.cfg.UsageTierLow:
		return "mid_usage"
	default:
		return "low_usage"
	}
}

func (d *Detector) detectBucket(bucket string, members []*nba.PlayerSeason, summary *nba.RunSummary) []Candidate {
	if len(members) < 2 {
		return nil
	}

	predicted := make([]float64, len(members))
	current := make([]float64, len(members))
	for i, ps := range members {
		predicted[i] = ps.Prediction.Score
		current[i] = ps.PointsPerPoss
	}
	predictedSorted := sortedCopy(predicted)
	currentSorted := sortedCopy(current)

	featureDist := bucketFeatureDistributions(members)

	var out []Candidate
	for i, ps := range members {
		predictedPct := percentileRank(predicted[i], predictedSorted)
		currentPct := percentileRank(current[i], currentSorted)

		if isElite(ps.Prediction.Archetype) {
			summary.RecordExclusion(ps.Key(), "already elite")
			continue
		}
		if currentPct > d.cfg.LatentCurrentCeiling {
			summary.RecordExclusion(ps.Key(), "current performance above latent ceiling")
			continue
		}

		divergence := predictedPct - currentPct
		if divergence <= d.cfg.LatentGapThreshold {
			continue
		}

		out = append(out, Candidate{
			PlayerID:     ps.PlayerID,
			PlayerName:   ps.PlayerName,
			SeasonID:     ps.SeasonID,
			Bucket:       bucket,
			PredictedPct: predictedPct,
			CurrentPct:   currentPct,
			Divergence:   divergence,
			Contributing: contributingGroups(ps.Vector, featureDist, d.cfg.LatentContributingPct),
		})
	}
	return out
}

func isElite(a nba.Archetype) bool {
	return a == nba.ArchetypeStableElite || a == nba.ArchetypeVolatileElite
}

// percentileRank is the empirical CDF of v within the sorted sample.
func percentileRank(v float64, sorted []float64) float64 {
	return stat.CDF(v, stat.Empirical, sorted, nil)
}

func sortedCopy(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Float64s(out)
	return out
}

// bucketFeatureDistributions builds per-feature sorted value samples over
// the bucket, skipping missing entries.
func bucketFeatureDistributions(members []*nba.PlayerSeason) map[string][]float64 {
	dist := make(map[string][]float64)
	for _, ps := range members {
		for _, f := range ps.Vector.Flatten() {
			if f.Missing {
				continue
			}
			dist[f.Name] = append(dist[f.Name], f.Value)
		}
	}
	for name := range dist {
		sort.Float64s(dist[name])
	}
	return dist
}

// contributingGroups names the feature groups driving a flag: groups whose
// present sub-features average at or above the configured percentile floor
// within the bucket. Attached for interpretability; human review happens
// downstream.
func contributingGroups(vec *nba.StressVector, dist map[string][]float64, floor float64) []string {
	var out []string
	for _, g := range vec.Groups {
		var sum float64
		var n int
		for _, f := range g.Features {
			if f.Missing {
				continue
			}
			name := nba.QualifiedName(g.Name, f.Name)
			sample := dist[name]
			if len(sample) == 0 {
				continue
			}
			sum += percentileRank(f.Value, sample)
			n++
		}
		if n > 0 && sum/float64(n) >= floor {
			out = append(out, g.Name)
		}
	}
	return out
}
