package similarity

import (
	"context"

	"github.com/kailas-cloud/patentsim/internal/domain"
)

// Repository reads the stored corpus in insertion order.
type Repository interface {
	ListAll(ctx context.Context) ([]domain.Patent, error)
}

// Normalizer canonicalizes free text before encoding.
type Normalizer interface {
	Normalize(text string) string
}
