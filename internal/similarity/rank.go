package similarity

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/patentsim/internal/domain"
)

// Rank pairs patent numbers with their scores and sorts descending by similarity.
// numbers and scores must be positionally aligned. Ties keep input order.
func Rank(numbers []string, scores []float64) ([]domain.ScoredResult, error) {
	if len(numbers) != len(scores) {
		return nil, fmt.Errorf("%w: %d records, %d scores", domain.ErrEncoderMismatch, len(numbers), len(scores))
	}

	results := make([]domain.ScoredResult, len(numbers))
	for i, n := range numbers {
		results[i] = domain.ScoredResult{PatentNumber: n, Similarity: scores[i]}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	return results, nil
}

// Top truncates ranked results to limit. limit <= 0 keeps everything.
func Top(results []domain.ScoredResult, limit int) []domain.ScoredResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
