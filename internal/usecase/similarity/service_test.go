package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/patentsim/internal/db/sqlite"
	"github.com/kailas-cloud/patentsim/internal/domain"
	"github.com/kailas-cloud/patentsim/internal/encoder/hashing"
	"github.com/kailas-cloud/patentsim/internal/repository/patent"
	"github.com/kailas-cloud/patentsim/internal/textnorm"
)

type countingEncoder struct {
	inner domain.Encoder
	calls [][]string
	err   error
	drop  bool
}

func (c *countingEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls = append(c.calls, append([]string(nil), texts...))
	if c.err != nil {
		return nil, c.err
	}
	vecs, err := c.inner.Encode(ctx, texts)
	if err != nil {
		return nil, err
	}
	if c.drop && len(texts) > 1 {
		vecs = vecs[:len(vecs)-1]
	}
	return vecs, nil
}

type staticRepo struct {
	patents []domain.Patent
	err     error
}

func (r staticRepo) ListAll(context.Context) ([]domain.Patent, error) { return r.patents, r.err }

func newStore(t *testing.T, patents ...domain.Patent) *patent.Repo {
	t.Helper()
	s, err := sqlite.Open(context.Background(), sqlite.Config{Path: sqlite.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	repo := patent.New(s.DB())
	for _, p := range patents {
		_, err := repo.Upsert(context.Background(), p)
		require.NoError(t, err)
	}
	return repo
}

func TestQuery_EndToEnd(t *testing.T) {
	repo := newStore(t, domain.Patent{Number: "US1A", Abstract: "a method for fastening two plates"})
	svc := New(repo, textnorm.New(), hashing.New(0))

	results, err := svc.Query(context.Background(), "plate fastening method", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "US1A", results[0].PatentNumber)
	assert.Greater(t, results[0].Similarity, 0.0)
	assert.LessOrEqual(t, results[0].Similarity, 1.0+1e-9)
}

func TestQuery_RanksMostSimilarFirst(t *testing.T) {
	repo := newStore(t,
		domain.Patent{Number: "US1A", Abstract: "gear box with helical gears"},
		domain.Patent{Number: "US2B", Abstract: "a method for fastening two plates with bolts"},
		domain.Patent{Number: "US3C", Abstract: "fastening plates"},
	)
	svc := New(repo, textnorm.New(), hashing.New(0))

	results, err := svc.Query(context.Background(), "Fastening plates", 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "US3C", results[0].PatentNumber)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
}

func TestQuery_Limit(t *testing.T) {
	repo := newStore(t,
		domain.Patent{Number: "US1A", Abstract: "plate"},
		domain.Patent{Number: "US2B", Abstract: "gear"},
	)
	svc := New(repo, textnorm.New(), hashing.New(0))

	results, err := svc.Query(context.Background(), "plate", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "US1A", results[0].PatentNumber)
}

func TestQuery_EmptyCorpusSkipsEncoder(t *testing.T) {
	enc := &countingEncoder{inner: hashing.New(0)}
	svc := New(newStore(t), textnorm.New(), enc)

	results, err := svc.Query(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Empty(t, enc.calls)
}

func TestQuery_NormalizesQueryAndCorpus(t *testing.T) {
	enc := &countingEncoder{inner: hashing.New(0)}
	repo := staticRepo{patents: []domain.Patent{{Number: "US1A", Abstract: "The Cats are Running!"}}}
	svc := New(repo, textnorm.New(), enc)

	_, err := svc.Query(context.Background(), "Running cats", 0)
	require.NoError(t, err)
	require.Len(t, enc.calls, 2)
	assert.Equal(t, []string{"running cat"}, enc.calls[0])
	assert.Equal(t, []string{"cat running"}, enc.calls[1])
}

func TestQuery_EmptyQueryScoresZero(t *testing.T) {
	repo := staticRepo{patents: []domain.Patent{{Number: "US1A", Abstract: "plate"}, {Number: "US2B", Abstract: ""}}}
	svc := New(repo, textnorm.New(), hashing.New(0))

	results, err := svc.Query(context.Background(), "the and", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Zero(t, r.Similarity)
	}
	assert.Equal(t, "US1A", results[0].PatentNumber, "ties keep corpus order")
}

func TestQuery_EncoderFailure(t *testing.T) {
	enc := &countingEncoder{err: domain.ErrEncoderUnavailable}
	svc := New(staticRepo{patents: []domain.Patent{{Number: "US1A", Abstract: "plate"}}}, textnorm.New(), enc)

	_, err := svc.Query(context.Background(), "plate", 0)
	require.ErrorIs(t, err, domain.ErrEncoderUnavailable)
}

func TestQuery_EncoderCountMismatch(t *testing.T) {
	enc := &countingEncoder{inner: hashing.New(0), drop: true}
	repo := staticRepo{patents: []domain.Patent{{Number: "US1A", Abstract: "plate"}, {Number: "US2B", Abstract: "gear"}}}
	svc := New(repo, textnorm.New(), enc)

	_, err := svc.Query(context.Background(), "plate", 0)
	require.ErrorIs(t, err, domain.ErrEncoderMismatch)
}

func TestQuery_RepositoryError(t *testing.T) {
	boom := errors.New("database is locked")
	svc := New(staticRepo{err: boom}, textnorm.New(), hashing.New(0))

	_, err := svc.Query(context.Background(), "plate", 0)
	require.ErrorIs(t, err, boom)
}
