package features

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// groupExtractor produces one named feature group from a raw player-season.
// Implementations must be pure: same input, same output, no side effects.
type groupExtractor interface {
	group() string
	names() []string
	extract(ps *nba.PlayerSeason) []nba.FeatureValue
}

// Extractor runs the fixed, ordered set of group extractors and enforces
// the schema invariant on every vector it produces.
type Extractor struct {
	cfg    *config.Config
	logger *logrus.Logger
	groups []groupExtractor
	schema []string
}

// NewExtractor creates an extractor with the canonical group ordering:
// creation, leverage, context, physicality, pressure, dependence,
// trajectory, gates. The ordering is part of the schema contract.
func NewExtractor(cfg *config.Config, logger *logrus.Logger) *Extractor {
	groups := []groupExtractor{
		&creationExtractor{cfg: cfg},
		&leverageExtractor{cfg: cfg},
		&contextExtractor{cfg: cfg},
		&physicalityExtractor{cfg: cfg},
		&pressureExtractor{cfg: cfg},
		&dependenceExtractor{cfg: cfg},
		&trajectoryExtractor{cfg: cfg},
		&gatesExtractor{cfg: cfg},
	}

	var schema []string
	for _, g := range groups {
		for _, n := range g.names() {
			schema = append(schema, nba.QualifiedName(g.group(), n))
		}
	}

	return &Extractor{
		cfg:    cfg,
		logger: logger,
		groups: groups,
		schema: schema,
	}
}

// Schema returns the full ordered feature superset identifiers.
func (e *Extractor) Schema() []string {
	out := make([]string, len(e.schema))
	copy(out, e.schema)
	return out
}

// Extract computes the stress vector for one player-season. Missing
// underlying data yields explicitly tagged missing sub-features, never a
// substituted zero. Low-sample seasons still get a structurally valid
// vector for inference-only use.
func (e *Extractor) Extract(ps *nba.PlayerSeason) (*nba.StressVector, error) {
	if ps == nil {
		return nil, fmt.Errorf("nil player season")
	}
	if ps.PlayerID == "" || ps.SeasonID == "" {
		return nil, &nba.MissingDataError{PlayerID: ps.PlayerID, SeasonID: ps.SeasonID, Field: "player/season identity"}
	}

	vec := &nba.StressVector{}
	for _, g := range e.groups {
		feats := g.extract(ps)
		if len(feats) != len(g.names()) {
			return nil, &nba.SchemaMismatchError{
				Expected: len(g.names()),
				Got:      len(feats),
				Detail:   fmt.Sprintf("group %q emitted wrong feature count", g.group()),
			}
		}
		vec.Groups = append(vec.Groups, nba.FeatureGroup{Name: g.group(), Features: feats})
	}

	if err := vec.CheckSchema(e.schema); err != nil {
		return nil, err
	}
	return vec, nil
}

// MarkLowSample flags seasons below the minimum minutes/possessions
// thresholds. Such seasons carry valid vectors but never bear labels.
func (e *Extractor) MarkLowSample(ps *nba.PlayerSeason) bool {
	ps.LowSample = ps.Minutes < e.cfg.MinSeasonMinutes || ps.Possessions < e.cfg.MinSeasonPossessions
	return ps.LowSample
}

// ExtractBatch computes vectors for a population in parallel over disjoint
// partitions. A failed extraction for one player-season is recorded and
// excluded; the batch continues.
func (e *Extractor) ExtractBatch(ctx context.Context, population []*nba.PlayerSeason, workers int) *nba.RunSummary {
	if workers < 1 {
		workers = 1
	}

	summary := &nba.RunSummary{Stage: "extract", StartedAt: time.Now()}
	var mu sync.Mutex

	jobs := make(chan *nba.PlayerSeason)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ps := range jobs {
				vec, err := e.Extract(ps)

				mu.Lock()
				summary.Processed++
				if err != nil {
					summary.Failed++
					summary.RecordExclusion(ps.Key(), err.Error())
					mu.Unlock()
					e.logger.WithFields(logrus.Fields{
						"player_id": ps.PlayerID,
						"season_id": ps.SeasonID,
					}).Warnf("Feature extraction failed: %v", err)
					continue
				}
				ps.Vector = vec
				if e.MarkLowSample(ps) {
					summary.LowSample++
					summary.RecordExclusion(ps.Key(), nba.ErrLowSample.Error())
				}
				mu.Unlock()
			}
		}()
	}

	for _, ps := range population {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			summary.Duration = time.Since(summary.StartedAt)
			return summary
		case jobs <- ps:
		}
	}
	close(jobs)
	wg.Wait()

	summary.Duration = time.Since(summary.StartedAt)
	e.logger.WithFields(logrus.Fields{
		"processed":  summary.Processed,
		"failed":     summary.Failed,
		"low_sample": summary.LowSample,
	}).Info("Feature extraction batch complete")
	return summary
}

// value is shorthand for a present sub-feature.
func value(name string, v float64) nba.FeatureValue {
	return nba.FeatureValue{Name: name, Value: v}
}

// absent is shorthand for an explicitly missing sub-feature.
func absent(name string) nba.FeatureValue {
	return nba.FeatureValue{Name: name, Missing: true}
}
