package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hirememorey/resilience-basketball-sub004/internal/features"
	"github.com/hirememorey/resilience-basketball-sub004/internal/labels"
	"github.com/hirememorey/resilience-basketball-sub004/internal/models"
	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/internal/predictor"
	"github.com/hirememorey/resilience-basketball-sub004/internal/riskmatrix"
	"github.com/hirememorey/resilience-basketball-sub004/internal/scout"
	"github.com/hirememorey/resilience-basketball-sub004/internal/selection"
	"github.com/hirememorey/resilience-basketball-sub004/internal/training"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/config"
)

// Pipeline wires the stages together: extraction, labeling, selection,
// training, prediction, detection, validation. One pipeline per
// invocation; all state flows through arguments and the store, never
// shared mutable globals.
type Pipeline struct {
	cfg       *config.Config
	logger    *logrus.Logger
	store     *models.Store
	extractor *features.Extractor
	labeler   *labels.Generator
	selector  *selection.Selector
	trainer   *training.Trainer
	validator *riskmatrix.Validator
	detector  *scout.Detector
}

func NewPipeline(cfg *config.Config, store *models.Store, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		extractor: features.NewExtractor(cfg, logger),
		labeler:   labels.NewGenerator(cfg, logger),
		selector:  selection.NewSelector(cfg, logger),
		trainer:   training.NewTrainer(cfg, logger),
		validator: riskmatrix.NewValidator(cfg, logger),
		detector:  scout.NewDetector(cfg, logger),
	}
}

// Extractor exposes the schema owner for callers that need it.
func (p *Pipeline) Extractor() *features.Extractor { return p.extractor }

// BuildDataset derives vectors and labels for a population and persists
// the predictive dataset. Returns the stage summaries.
func (p *Pipeline) BuildDataset(ctx context.Context, population []*nba.PlayerSeason, workers int) ([]*nba.RunSummary, error) {
	extractSummary := p.extractor.ExtractBatch(ctx, population, workers)
	labelSummary := p.labeler.GenerateBatch(population)

	if err := p.store.SaveDataset(population); err != nil {
		return nil, fmt.Errorf("persist dataset: %w", err)
	}
	return []*nba.RunSummary{extractSummary, labelSummary}, nil
}

// TrainingRows builds the labeled design matrix from a population,
// enforcing the schema invariant on every row. A mismatch aborts: silently
// reshaping one vector would poison the whole training run.
func (p *Pipeline) TrainingRows(population []*nba.PlayerSeason) ([]nba.TrainingRow, error) {
	schema := p.extractor.Schema()
	var rows []nba.TrainingRow
	for _, ps := range population {
		if ps.Vector == nil || ps.Label == nil || ps.LowSample {
			continue
		}
		if err := ps.Vector.CheckSchema(schema); err != nil {
			return nil, fmt.Errorf("row %s: %w", ps.Key(), err)
		}
		rows = append(rows, nba.TrainingRow{
			PlayerID: ps.PlayerID,
			SeasonID: ps.SeasonID,
			Values:   ps.Vector.Flatten(),
			Label:    ps.Label.Resilience,
		})
	}
	return rows, nil
}

// Train selects features and fits a model from the stored dataset. The
// model is persisted unpromoted: promotion happens only after the risk
// matrix acceptance gate passes.
func (p *Pipeline) Train(ctx context.Context) (*nba.TrainedModel, *nba.FeatureSet, error) {
	population, err := p.store.LoadPopulation()
	if err != nil {
		return nil, nil, err
	}
	rows, err := p.TrainingRows(population)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no labeled rows available for training")
	}

	fs, err := p.selector.Run(rows, p.extractor.Schema())
	if err != nil {
		return nil, nil, fmt.Errorf("feature selection: %w", err)
	}
	if err := p.store.SaveFeatureSet(fs); err != nil {
		return nil, nil, fmt.Errorf("persist feature set: %w", err)
	}

	model, err := p.trainer.Train(rows, fs)
	if err != nil {
		return nil, nil, fmt.Errorf("training: %w", err)
	}
	if err := p.store.SaveModel(model, false); err != nil {
		return nil, nil, fmt.Errorf("persist model: %w", err)
	}
	return model, fs, nil
}

// PredictAll scores the stored population with the primary model and
// persists the updated rows. Per-entity failures are recorded; the batch
// continues.
func (p *Pipeline) PredictAll(ctx context.Context) ([]*nba.PlayerSeason, *nba.RunSummary, error) {
	model, err := p.store.PrimaryModel()
	if err != nil {
		return nil, nil, err
	}
	population, err := p.store.LoadPopulation()
	if err != nil {
		return nil, nil, err
	}

	pred := predictor.NewPredictor(p.cfg, model, p.logger)
	summary := &nba.RunSummary{Stage: "predict", StartedAt: time.Now()}
	for _, ps := range population {
		summary.Processed++
		prediction, err := pred.Predict(ps)
		if err != nil {
			if nba.IsSchemaMismatch(err) {
				// Structural: every downstream number is suspect.
				return nil, nil, err
			}
			summary.Failed++
			summary.RecordExclusion(ps.Key(), err.Error())
			continue
		}
		ps.Prediction = prediction
	}
	summary.Duration = time.Since(summary.StartedAt)

	if err := p.store.SaveDataset(population); err != nil {
		return nil, nil, fmt.Errorf("persist predictions: %w", err)
	}
	return population, summary, nil
}

// Scout runs latent star detection over the scored population and
// persists the ranked candidate table under a fresh run ID.
func (p *Pipeline) Scout(ctx context.Context) ([]scout.Candidate, *nba.RunSummary, error) {
	population, _, err := p.PredictAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	candidates, summary := p.detector.Detect(population)
	runID := uuid.NewString()
	if err := p.store.SaveCandidates(runID, candidates); err != nil {
		return nil, nil, fmt.Errorf("persist candidates: %w", err)
	}
	p.logger.WithFields(logrus.Fields{
		"run_id":     runID,
		"candidates": len(candidates),
	}).Info("Latent star candidates persisted")
	return candidates, summary, nil
}

// Validate runs the risk matrix harness against the named model (or the
// newest model when version is empty) and persists the report. When the
// report passes and promote is set, the model becomes primary.
func (p *Pipeline) Validate(ctx context.Context, cases []riskmatrix.Case, model *nba.TrainedModel, promote bool) (*riskmatrix.Report, error) {
	pred := predictor.NewPredictor(p.cfg, model, p.logger)

	report := p.validator.Run(cases,
		func(playerID, seasonID string) (*nba.PlayerSeason, error) {
			return p.store.LoadPlayerSeason(playerID, seasonID)
		},
		func(ps *nba.PlayerSeason) (*nba.ArchetypePrediction, error) {
			if ps.Vector == nil {
				vec, err := p.extractor.Extract(ps)
				if err != nil {
					return nil, err
				}
				ps.Vector = vec
			}
			return pred.Predict(ps)
		},
	)

	if err := p.store.SaveReport(model.Version, report); err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}

	if promote {
		if !report.AllPassed() {
			return report, fmt.Errorf("model %s failed the risk matrix acceptance gate (%d/%d cases)",
				model.Version, report.Passed, len(report.Results))
		}
		if err := p.store.SaveModel(model, true); err != nil {
			return nil, fmt.Errorf("promote model: %w", err)
		}
		p.logger.WithField("model_version", model.Version).Info("Model promoted to primary")
	}
	return report, nil
}
