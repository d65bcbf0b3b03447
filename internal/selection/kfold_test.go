package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
)

func seasonRows(seasons int, perSeason int) []nba.TrainingRow {
	var rows []nba.TrainingRow
	for s := 0; s < seasons; s++ {
		seasonID := fmt.Sprintf("20%02d-%02d", 10+s, 11+s)
		for p := 0; p < perSeason; p++ {
			rows = append(rows, nba.TrainingRow{
				PlayerID: fmt.Sprintf("p%d", p),
				SeasonID: seasonID,
			})
		}
	}
	return rows
}

func TestSeasonBlockedFoldsNoLeakage(t *testing.T) {
	rows := seasonRows(7, 12)
	folds, err := SeasonBlockedFolds(rows, 3, 42)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	for fi, fold := range folds {
		trainSeasons := make(map[string]bool)
		for _, i := range fold.Train {
			trainSeasons[rows[i].SeasonID] = true
		}
		for _, i := range fold.Validate {
			assert.False(t, trainSeasons[rows[i].SeasonID],
				"fold %d: season %s appears on both sides of the split", fi, rows[i].SeasonID)
		}
		assert.Equal(t, len(rows), len(fold.Train)+len(fold.Validate))
	}

	// Every row validates in exactly one fold.
	seen := make(map[int]int)
	for _, fold := range folds {
		for _, i := range fold.Validate {
			seen[i]++
		}
	}
	require.Len(t, seen, len(rows))
	for i, n := range seen {
		assert.Equal(t, 1, n, "row %d validated %d times", i, n)
	}
}

func TestSeasonBlockedFoldsDeterministic(t *testing.T) {
	rows := seasonRows(12, 5)

	a, err := SeasonBlockedFolds(rows, 3, 1337)
	require.NoError(t, err)
	b, err := SeasonBlockedFolds(rows, 3, 1337)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := SeasonBlockedFolds(rows, 3, 7)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different seeds should deal seasons differently")
}

func TestSeasonBlockedFoldsErrors(t *testing.T) {
	rows := seasonRows(2, 4)

	_, err := SeasonBlockedFolds(rows, 1, 0)
	assert.Error(t, err)

	_, err = SeasonBlockedFolds(rows, 5, 0)
	assert.Error(t, err, "more folds than distinct seasons cannot be blocked")
}
