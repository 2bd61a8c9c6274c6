// Package hashing is an offline bag-of-words encoder based on feature hashing.
// It needs no model files and is deterministic, which makes it the default
// provider for local runs and tests.
package hashing

import (
	"context"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultDimensions matches the output size of all-MiniLM-L6-v2.
const DefaultDimensions = 384

// Encoder hashes each whitespace-separated token into one of Dimensions buckets.
type Encoder struct {
	dims int
}

// New creates an encoder. dims <= 0 selects DefaultDimensions.
func New(dims int) *Encoder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Encoder{dims: dims}
}

// Dimensions returns the vector length.
func (e *Encoder) Dimensions() int { return e.dims }

// Encode returns one L2-normalized term-count vector per text.
// Empty text maps to the all-zero vector.
func (e *Encoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.encode(t)
	}
	return out, nil
}

func (e *Encoder) encode(text string) []float32 {
	vec := make([]float32, e.dims)
	for _, tok := range strings.Fields(text) {
		vec[xxhash.Sum64String(tok)%uint64(e.dims)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	inv := 1 / math.Sqrt(norm)
	for i, v := range vec {
		vec[i] = float32(float64(v) * inv)
	}
	return vec
}
