package ingest

import (
	"context"

	"github.com/kailas-cloud/patentsim/internal/domain"
)

// Fetcher downloads one patent by number.
type Fetcher interface {
	Fetch(ctx context.Context, number string) (domain.Patent, error)
}

// Repository persists patents. Upsert reports whether a new row was inserted.
type Repository interface {
	Upsert(ctx context.Context, p domain.Patent) (bool, error)
}
