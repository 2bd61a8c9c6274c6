// Package similarity scores corpus vectors against a query vector and ranks them.
package similarity

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/patentsim/internal/domain"
)

// Cosine returns dot(a, b) / (|a| * |b|), accumulated in float64.
// It returns 0 when either vector has zero magnitude (including empty vectors)
// or when the lengths differ; Score rejects mismatched lengths before calling it.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2))
}

// Score computes one cosine similarity per corpus vector, positionally aligned
// with corpus. Empty vectors on either side score 0; any other length mismatch
// is an error.
func Score(query []float32, corpus [][]float32) ([]float64, error) {
	scores := make([]float64, len(corpus))
	if len(query) == 0 {
		return scores, nil
	}
	for i, vec := range corpus {
		if len(vec) == 0 {
			continue
		}
		if len(vec) != len(query) {
			return nil, fmt.Errorf("%w: corpus[%d] has %d dimensions, query has %d",
				domain.ErrVectorDimMismatch, i, len(vec), len(query))
		}
		scores[i] = Cosine(query, vec)
	}
	return scores, nil
}
