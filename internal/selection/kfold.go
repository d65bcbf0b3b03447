package selection

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/hirememorey/resilience-basketball-sub004/internal/nba"
)

// Fold is one train/validation split, as row indices into the input slice.
type Fold struct {
	Train    []int
	Validate []int
}

// SeasonBlockedFolds assigns whole seasons to folds so no season ever
// straddles a train/validation boundary. Within-season correlation leaking
// into validation folds is the main way this pipeline could silently
// overstate its accuracy.
//
// Deterministic for a fixed seed: seasons are sorted before the seeded
// shuffle, then dealt round-robin.
func SeasonBlockedFolds(rows []nba.TrainingRow, k int, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d", k)
	}

	bySeason := make(map[string][]int)
	for i, r := range rows {
		bySeason[r.SeasonID] = append(bySeason[r.SeasonID], i)
	}
	if len(bySeason) < k {
		return nil, fmt.Errorf("need at least %d distinct seasons for %d folds, got %d", k, k, len(bySeason))
	}

	seasons := make([]string, 0, len(bySeason))
	for s := range bySeason {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(seasons), func(i, j int) {
		seasons[i], seasons[j] = seasons[j], seasons[i]
	})

	foldSeasons := make([][]string, k)
	for i, s := range seasons {
		foldSeasons[i%k] = append(foldSeasons[i%k], s)
	}

	folds := make([]Fold, k)
	for f := 0; f < k; f++ {
		inFold := make(map[string]bool, len(foldSeasons[f]))
		for _, s := range foldSeasons[f] {
			inFold[s] = true
		}
		for i, r := range rows {
			if inFold[r.SeasonID] {
				folds[f].Validate = append(folds[f].Validate, i)
			} else {
				folds[f].Train = append(folds[f].Train, i)
			}
		}
	}
	return folds, nil
}
