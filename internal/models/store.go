package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
	"github.com/hirememorey/resilience-basketball-sub004/internal/riskmatrix"
	"github.com/hirememorey/resilience-basketball-sub004/internal/scout"
	"github.com/hirememorey/resilience-basketball-sub004/pkg/database"
)

// Store is the persistence layer for the pipeline: predictive dataset,
// feature set versions, model artifacts, candidate tables, and validation
// reports.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// SaveDataset upserts the predictive rows for a population. A re-run
// replaces each row wholesale — vector, payload and label together — so a
// row can never carry a stale vector next to a fresh label.
func (s *Store) SaveDataset(population []*nba.PlayerSeason) error {
	for _, ps := range population {
		row, err := rowFromPlayerSeason(ps)
		if err != nil {
			return fmt.Errorf("encode row %s: %w", ps.Key(), err)
		}
		err = s.db.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "player_id"}, {Name: "season_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"player_name", "minutes", "possessions", "usage_rate",
				"points_per_poss", "low_sample", "vector", "payload",
				"label_value", "updated_at",
			}),
		}).Create(row).Error
		if err != nil {
			return fmt.Errorf("save row %s: %w", ps.Key(), err)
		}
	}
	return nil
}

func rowFromPlayerSeason(ps *nba.PlayerSeason) (*PredictiveRow, error) {
	payload, err := json.Marshal(ps)
	if err != nil {
		return nil, err
	}
	var vector []byte
	if ps.Vector != nil {
		if vector, err = json.Marshal(ps.Vector.Flatten()); err != nil {
			return nil, err
		}
	}
	row := &PredictiveRow{
		PlayerID:      ps.PlayerID,
		SeasonID:      ps.SeasonID,
		PlayerName:    ps.PlayerName,
		Minutes:       ps.Minutes,
		Possessions:   ps.Possessions,
		UsageRate:     ps.UsageRate,
		PointsPerPoss: ps.PointsPerPoss,
		LowSample:     ps.LowSample,
		Vector:        vector,
		Payload:       payload,
	}
	if ps.Label != nil {
		v := ps.Label.Resilience
		row.LabelValue = &v
	}
	return row, nil
}

// LoadPopulation rebuilds the full population from stored payloads.
func (s *Store) LoadPopulation() ([]*nba.PlayerSeason, error) {
	var rows []PredictiveRow
	if err := s.db.DB.Order("player_id, season_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	out := make([]*nba.PlayerSeason, 0, len(rows))
	for _, row := range rows {
		var ps nba.PlayerSeason
		if err := json.Unmarshal(row.Payload, &ps); err != nil {
			return nil, fmt.Errorf("decode row %s:%s: %w", row.PlayerID, row.SeasonID, err)
		}
		out = append(out, &ps)
	}
	return out, nil
}

// LoadPlayerSeason fetches one row's full payload.
func (s *Store) LoadPlayerSeason(playerID, seasonID string) (*nba.PlayerSeason, error) {
	var row PredictiveRow
	err := s.db.DB.Where("player_id = ? AND season_id = ?", playerID, seasonID).First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("load %s:%s: %w", playerID, seasonID, err)
	}
	var ps nba.PlayerSeason
	if err := json.Unmarshal(row.Payload, &ps); err != nil {
		return nil, fmt.Errorf("decode %s:%s: %w", playerID, seasonID, err)
	}
	return &ps, nil
}

// ListRows pages through dataset rows, optionally filtered by season.
func (s *Store) ListRows(seasonID string, limit, offset int) ([]PredictiveRow, int64, error) {
	q := s.db.DB.Model(&PredictiveRow{})
	if seasonID != "" {
		q = q.Where("season_id = ?", seasonID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []PredictiveRow
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Offset(offset).Order("player_id, season_id").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// SaveFeatureSet persists a new feature set version. Versions are
// immutable; re-inserting an existing version is a no-op.
func (s *Store) SaveFeatureSet(fs *nba.FeatureSet) error {
	features, err := json.Marshal(fs.Features)
	if err != nil {
		return err
	}
	rounds, err := json.Marshal(fs.Rounds)
	if err != nil {
		return err
	}
	record := &FeatureSetRecord{
		Version:  fs.Version,
		Features: features,
		Rounds:   rounds,
	}
	return s.db.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

// LoadFeatureSet fetches a version.
func (s *Store) LoadFeatureSet(version string) (*nba.FeatureSet, error) {
	var record FeatureSetRecord
	if err := s.db.DB.Where("version = ?", version).First(&record).Error; err != nil {
		return nil, fmt.Errorf("load feature set %s: %w", version, err)
	}
	fs := &nba.FeatureSet{Version: record.Version, CreatedAt: record.CreatedAt}
	if err := json.Unmarshal(record.Features, &fs.Features); err != nil {
		return nil, err
	}
	if len(record.Rounds) > 0 {
		if err := json.Unmarshal(record.Rounds, &fs.Rounds); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// SaveModel persists a model artifact and, when promote is set, makes it
// the single primary in one transaction.
func (s *Store) SaveModel(model *nba.TrainedModel, promote bool) error {
	payload, err := json.Marshal(model)
	if err != nil {
		return err
	}
	return s.db.DB.Transaction(func(tx *gorm.DB) error {
		if promote {
			if err := tx.Model(&TrainedModelRecord{}).Where("is_primary = ?", true).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		record := &TrainedModelRecord{
			Version:           model.Version,
			FeatureSetVersion: model.FeatureSetVersion,
			Payload:           payload,
			Primary:           promote,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "version"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_primary"}),
		}).Create(record).Error
	})
}

// PrimaryModel loads the promoted model, or ErrNoPrimaryModel.
func (s *Store) PrimaryModel() (*nba.TrainedModel, error) {
	var record TrainedModelRecord
	err := s.db.DB.Where("is_primary = ?", true).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nba.ErrNoPrimaryModel
		}
		return nil, fmt.Errorf("load primary model: %w", err)
	}
	var model nba.TrainedModel
	if err := json.Unmarshal(record.Payload, &model); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", record.Version, err)
	}
	model.Primary = true
	return &model, nil
}

// LoadModel fetches a specific model artifact by version.
func (s *Store) LoadModel(version string) (*nba.TrainedModel, error) {
	var record TrainedModelRecord
	if err := s.db.DB.Where("version = ?", version).First(&record).Error; err != nil {
		return nil, fmt.Errorf("load model %s: %w", version, err)
	}
	var model nba.TrainedModel
	if err := json.Unmarshal(record.Payload, &model); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", version, err)
	}
	model.Primary = record.Primary
	return &model, nil
}

// LatestModel fetches the newest model artifact regardless of promotion.
func (s *Store) LatestModel() (*nba.TrainedModel, error) {
	var record TrainedModelRecord
	err := s.db.DB.Order("created_at desc").First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nba.ErrNoPrimaryModel
		}
		return nil, err
	}
	var model nba.TrainedModel
	if err := json.Unmarshal(record.Payload, &model); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", record.Version, err)
	}
	model.Primary = record.Primary
	return &model, nil
}

// SaveCandidates replaces the candidate table for a detection run, ranked.
func (s *Store) SaveCandidates(runID string, candidates []scout.Candidate) error {
	for i, c := range candidates {
		contributing, err := json.Marshal(c.Contributing)
		if err != nil {
			return err
		}
		record := &LatentCandidateRecord{
			RunID:        runID,
			Rank:         i + 1,
			PlayerID:     c.PlayerID,
			PlayerName:   c.PlayerName,
			SeasonID:     c.SeasonID,
			Bucket:       c.Bucket,
			PredictedPct: c.PredictedPct,
			CurrentPct:   c.CurrentPct,
			Divergence:   c.Divergence,
			Contributing: contributing,
		}
		if err := s.db.DB.Create(record).Error; err != nil {
			return fmt.Errorf("save candidate %s:%s: %w", c.PlayerID, c.SeasonID, err)
		}
	}
	return nil
}

// LatestCandidates returns the most recent run's ranked table.
func (s *Store) LatestCandidates(limit int) ([]LatentCandidateRecord, error) {
	var latest LatentCandidateRecord
	err := s.db.DB.Order("created_at desc").First(&latest).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	var out []LatentCandidateRecord
	q := s.db.DB.Where("run_id = ?", latest.RunID).Order("rank")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SaveReport persists a risk matrix validation report.
func (s *Store) SaveReport(modelVersion string, report *riskmatrix.Report) error {
	results, err := json.Marshal(report.Results)
	if err != nil {
		return err
	}
	record := &RiskMatrixReportRecord{
		ModelVersion: modelVersion,
		Passed:       report.Passed,
		Failed:       report.Failed,
		Results:      results,
	}
	return s.db.DB.Create(record).Error
}

// LatestReport returns the most recent validation report record.
func (s *Store) LatestReport() (*RiskMatrixReportRecord, error) {
	var record RiskMatrixReportRecord
	err := s.db.DB.Order("created_at desc").First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
