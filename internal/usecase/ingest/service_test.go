package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/db/sqlite"
	"github.com/kailas-cloud/patentsim/internal/domain"
	"github.com/kailas-cloud/patentsim/internal/repository/patent"
)

type fakeFetcher struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, number string) (domain.Patent, error) {
	f.mu.Lock()
	f.calls = append(f.calls, number)
	f.mu.Unlock()
	if f.fail[number] {
		return domain.Patent{}, fmt.Errorf("get %s: status 404: %w", number, domain.ErrFetchFailed)
	}
	return domain.Patent{Number: number, Title: "Title " + number, Abstract: "abstract of " + number}, nil
}

type failingRepo struct{}

func (failingRepo) Upsert(context.Context, domain.Patent) (bool, error) {
	return false, errors.New("disk full")
}

func newTestRepo(t *testing.T) *patent.Repo {
	t.Helper()
	s, err := sqlite.Open(context.Background(), sqlite.Config{Path: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return patent.New(s.DB())
}

func TestIngest_InsertsAndCounts(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &fakeFetcher{fail: map[string]bool{"US404": true}}
	svc := New(fetcher, repo, 1, zap.NewNop())
	ctx := context.Background()

	sum, err := svc.Ingest(ctx, []string{"US1A", " ", "US404", "US2B"})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Requested)
	assert.Equal(t, 2, sum.Inserted)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 0, sum.Duplicates)
	_, err = uuid.Parse(sum.RunID)
	require.NoError(t, err)

	assert.Equal(t, []string{"US1A", "US404", "US2B"}, fetcher.calls, "single worker keeps input order")

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "US1A", all[0].Number)
	assert.Equal(t, "US2B", all[1].Number)
}

func TestIngest_TwiceIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	svc := New(&fakeFetcher{}, repo, 1, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Ingest(ctx, []string{"US1A"})
	require.NoError(t, err)
	second, err := svc.Ingest(ctx, []string{"US1A"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Inserted)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Duplicates)
	assert.NotEqual(t, first.RunID, second.RunID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIngest_Concurrent(t *testing.T) {
	repo := newTestRepo(t)
	fetcher := &fakeFetcher{}
	svc := New(fetcher, repo, 4, zap.NewNop())

	numbers := make([]string, 20)
	for i := range numbers {
		numbers[i] = fmt.Sprintf("US%dA", i)
	}

	sum, err := svc.Ingest(context.Background(), numbers)
	require.NoError(t, err)
	assert.Equal(t, 20, sum.Inserted)
	assert.Len(t, fetcher.calls, 20)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestIngest_StoreFailureIsCounted(t *testing.T) {
	svc := New(&fakeFetcher{}, failingRepo{}, 1, zap.NewNop())

	sum, err := svc.Ingest(context.Background(), []string{"US1A", "US2B"})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Failed)
	assert.Equal(t, 0, sum.Inserted)
}

func TestIngest_Empty(t *testing.T) {
	svc := New(&fakeFetcher{}, failingRepo{}, 0, zap.NewNop())

	sum, err := svc.Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Requested)
	assert.NotEmpty(t, sum.RunID)
}
