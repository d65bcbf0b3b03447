package nba

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVector() *StressVector {
	return &StressVector{
		Groups: []FeatureGroup{
			{Name: "creation", Features: []FeatureValue{
				{Name: "usage_rate", Value: 0.27},
				{Name: "assist_rate", Value: 0.21},
			}},
			{Name: "pressure", Features: []FeatureValue{
				{Name: "contested_share", Value: 0.44},
				{Name: "late_clock_efg", Missing: true},
			}},
		},
	}
}

func TestFlattenOrderAndNames(t *testing.T) {
	flat := testVector().Flatten()
	require.Len(t, flat, 4)

	assert.Equal(t, "creation.usage_rate", flat[0].Name)
	assert.Equal(t, "creation.assist_rate", flat[1].Name)
	assert.Equal(t, "pressure.contested_share", flat[2].Name)
	assert.Equal(t, "pressure.late_clock_efg", flat[3].Name)
	assert.True(t, flat[3].Missing)
}

func TestCheckSchema(t *testing.T) {
	vec := testVector()
	schema := []string{
		"creation.usage_rate",
		"creation.assist_rate",
		"pressure.contested_share",
		"pressure.late_clock_efg",
	}
	require.NoError(t, vec.CheckSchema(schema))

	tests := []struct {
		name   string
		schema []string
	}{
		{"too short", schema[:3]},
		{"too long", append(append([]string{}, schema...), "gates.minutes_gate")},
		{"reordered", []string{schema[1], schema[0], schema[2], schema[3]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := vec.CheckSchema(tt.schema)
			require.Error(t, err)
			assert.True(t, IsSchemaMismatch(err), "expected SchemaMismatchError, got %v", err)
		})
	}
}

func TestSubset(t *testing.T) {
	flat := testVector().Flatten()

	sub, err := Subset(flat, []string{"pressure.contested_share", "creation.usage_rate"})
	require.NoError(t, err)
	require.Len(t, sub, 2)
	assert.Equal(t, 0.44, sub[0].Value)
	assert.Equal(t, 0.27, sub[1].Value)

	_, err = Subset(flat, []string{"physicality.rim_finish_pct"})
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err))
}

func TestValuesRejectsMissing(t *testing.T) {
	flat := testVector().Flatten()

	_, err := Values(flat)
	require.Error(t, err)
	assert.True(t, IsMissingData(err))

	vals, err := Values(flat[:3])
	require.NoError(t, err)
	assert.Equal(t, []float64{0.27, 0.21, 0.44}, vals)
}

func TestModelScoreWidthCheck(t *testing.T) {
	model := &TrainedModel{Weights: []float64{1, 2}, Intercept: 0.5}

	score, err := model.Score([]float64{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, score, 1e-12)

	_, err = model.Score([]float64{1})
	require.Error(t, err)
	assert.True(t, IsSchemaMismatch(err))
}
