package domain

import (
	"context"
	"fmt"
)

// Encoder is the shared text vectorization contract between layers.
// It returns one vector per input text, in input order.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EncodeFunc encodes a batch of non-empty texts.
type EncodeFunc func(ctx context.Context, texts []string) ([][]float32, error)

// EncodeNonEmpty sends only non-empty texts to fn and returns a nil vector for
// every empty input. Remote providers reject empty strings, while a query that
// normalizes to nothing must still score (as 0.0) instead of failing.
func EncodeNonEmpty(ctx context.Context, texts []string, fn EncodeFunc) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	idx := make([]int, 0, len(texts))
	batch := make([]string, 0, len(texts))
	for i, t := range texts {
		if t == "" {
			continue
		}
		idx = append(idx, i)
		batch = append(batch, t)
	}
	if len(batch) == 0 {
		return out, nil
	}

	vecs, err := fn(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(batch) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEncoderMismatch, len(vecs), len(batch))
	}
	for j, i := range idx {
		out[i] = vecs[j]
	}
	return out, nil
}

// EncodeOne encodes a single text through a batch encoder.
func EncodeOne(ctx context.Context, enc Encoder, text string) ([]float32, error) {
	vecs, err := enc.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for 1 text", ErrEncoderMismatch, len(vecs))
	}
	return vecs[0], nil
}
