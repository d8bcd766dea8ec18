// Package ranking scores search results by how likely they are to be "good".
package ranking

import (
	"math"

	gutils "github.com/Laisky/go-utils/v6"

	"pushbot/internal/models"
)

// Rank returns a desirability score built from recency and popularity
// signals, used to weight the randomised ordering of fresh result sets.
func Rank(result *models.SearchResult) float64 {
	return popularityScore(result) + recencyScore(result)
}

func recencyScore(result *models.SearchResult) float64 {
	// favour recent results
	ageDays := gutils.Clock.GetUTCNow().Sub(result.CreatedUTC).Hours() / 24

	score := 1 - 1/math.Log10(ageDays)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 1
	}

	return score
}

func popularityScore(result *models.SearchResult) float64 {
	// pushshift rarely refreshes the score (https://github.com/pushshift/api/issues/14),
	// results over 30 days old can still report a score of 1 while sitting
	// well above 1000 on reddit; the comment count stays reasonably fresh
	const minScore = 1

	score := math.Log10(float64(result.NumComments)) + math.Log10(float64(result.Score))
	if math.IsNaN(score) {
		return minScore
	}

	return math.Max(minScore, score)
}
