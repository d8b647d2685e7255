package hebbian

import "github.com/banshee-data/shapegrid/internal/grid"

// Score is the feed-forward decision value of sample against weights.
func Score(weights, sample *grid.Grid) float64 {
	return weights.Dot(sample)
}

// Learn scores sample and accumulates it into weights when the score is not
// positive. It reports the pre-update score and whether weights changed.
func Learn(weights, sample *grid.Grid) (score float64, accumulated bool) {
	score = Score(weights, sample)
	if score <= 0 {
		weights.Accumulate(sample)
		return score, true
	}
	return score, false
}

// Correct reports whether a score counts as a correct classification.
func Correct(score float64) bool { return score > 0 }
