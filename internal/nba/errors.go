package nba

import (
	"errors"
	"fmt"
)

// MissingDataError marks a required raw field or sub-feature that the
// source data could not supply. Per-entity: the player-season is excluded
// from label-bearing rows and falls back to InsufficientData at inference,
// but the batch continues.
type MissingDataError struct {
	PlayerID string
	SeasonID string
	Field    string
}

func (e *MissingDataError) Error() string {
	if e.PlayerID != "" {
		return fmt.Sprintf("missing data for %s %s: %s", e.PlayerID, e.SeasonID, e.Field)
	}
	return fmt.Sprintf("missing data: %s", e.Field)
}

// SchemaMismatchError means a stress vector disagrees with the feature
// schema it is scored against. Fatal: every downstream number would be
// untrustworthy, so the run aborts instead of reshaping.
type SchemaMismatchError struct {
	Expected int
	Got      int
	Detail   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("feature schema mismatch (expected %d, got %d): %s", e.Expected, e.Got, e.Detail)
}

// ValidationFailure is a risk matrix case landing outside its expected
// quadrant. Reported, not fatal to the run, but blocks promoting the model
// that produced it.
type ValidationFailure struct {
	CaseID   string
	Expected string
	Actual   string
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("risk matrix case %s: expected quadrant %s, landed in %s", e.CaseID, e.Expected, e.Actual)
}

// ErrLowSample marks a season below the minimum minutes/possessions
// thresholds: excluded from labels, kept for inference.
var ErrLowSample = errors.New("below minimum sample thresholds")

// ErrNoPrimaryModel is returned when inference is requested before any
// model has been trained and promoted.
var ErrNoPrimaryModel = errors.New("no primary trained model available")

// IsMissingData reports whether err is (or wraps) a MissingDataError.
func IsMissingData(err error) bool {
	var m *MissingDataError
	return errors.As(err, &m)
}

// IsSchemaMismatch reports whether err is (or wraps) a SchemaMismatchError.
func IsSchemaMismatch(err error) bool {
	var m *SchemaMismatchError
	return errors.As(err, &m)
}
