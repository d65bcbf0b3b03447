package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PredictiveRow is one player-season in the predictive dataset: the raw
// aggregates, the flattened stress vector, and the label where history
// supports one. The full PlayerSeason payload (shot events included) rides
// along as JSON so a re-run can rebuild everything from storage alone.
type PredictiveRow struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PlayerID string `gorm:"not null;uniqueIndex:idx_player_season" json:"player_id"`
	SeasonID string `gorm:"not null;uniqueIndex:idx_player_season" json:"season_id"`

	PlayerName    string  `json:"player_name"`
	Minutes       float64 `json:"minutes"`
	Possessions   float64 `json:"possessions"`
	UsageRate     float64 `json:"usage_rate"`
	PointsPerPoss float64 `json:"points_per_poss"`
	LowSample     bool    `json:"low_sample"`

	Vector     datatypes.JSON `json:"vector"`
	Payload    datatypes.JSON `json:"payload"`
	LabelValue *float64       `json:"label_value,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeatureSetRecord persists a versioned feature set with its CV audit
// trail. Never updated after insert.
type FeatureSetRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Version   string         `gorm:"not null;uniqueIndex" json:"version"`
	Features  datatypes.JSON `json:"features"`
	Rounds    datatypes.JSON `json:"rounds"`
	CreatedAt time.Time      `json:"created_at"`
}

// TrainedModelRecord persists a serialized model artifact. Older records
// are retained for reproducibility; exactly one row is primary.
type TrainedModelRecord struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Version           string         `gorm:"not null;uniqueIndex" json:"version"`
	FeatureSetVersion string         `gorm:"not null;index" json:"feature_set_version"`
	Payload           datatypes.JSON `json:"payload"`
	Primary           bool           `gorm:"column:is_primary;default:false" json:"primary"`
	CreatedAt         time.Time      `json:"created_at"`
}

// LatentCandidateRecord is one row of the ranked latent star table for a
// detection run.
type LatentCandidateRecord struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RunID        string         `gorm:"not null;index" json:"run_id"`
	Rank         int            `json:"rank"`
	PlayerID     string         `gorm:"not null" json:"player_id"`
	PlayerName   string         `json:"player_name"`
	SeasonID     string         `gorm:"not null" json:"season_id"`
	Bucket       string         `json:"bucket"`
	PredictedPct float64        `json:"predicted_pct"`
	CurrentPct   float64        `json:"current_pct"`
	Divergence   float64        `json:"divergence"`
	Contributing datatypes.JSON `json:"contributing_groups"`
	CreatedAt    time.Time      `json:"created_at"`
}

// RiskMatrixReportRecord persists one validation run against the case
// fixtures, with the model it gates.
type RiskMatrixReportRecord struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ModelVersion string         `gorm:"index" json:"model_version"`
	Passed       int            `json:"passed"`
	Failed       int            `json:"failed"`
	Results      datatypes.JSON `json:"results"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Migrate creates or updates the schema for every pipeline table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&PredictiveRow{},
		&FeatureSetRecord{},
		&TrainedModelRecord{},
		&LatentCandidateRecord{},
		&RiskMatrixReportRecord{},
	)
}
