package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeNonEmpty_SkipsEmptyTexts(t *testing.T) {
	var got []string
	fn := func(_ context.Context, texts []string) ([][]float32, error) {
		got = texts
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{float32(i + 1)}
		}
		return out, nil
	}

	vecs, err := EncodeNonEmpty(context.Background(), []string{"a", "", "b"}, fn)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float32{1}, vecs[0])
	assert.Nil(t, vecs[1])
	assert.Equal(t, []float32{2}, vecs[2])
}

func TestEncodeNonEmpty_AllEmptyDoesNotCallProvider(t *testing.T) {
	called := false
	fn := func(_ context.Context, _ []string) ([][]float32, error) {
		called = true
		return nil, nil
	}

	vecs, err := EncodeNonEmpty(context.Background(), []string{"", ""}, fn)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Len(t, vecs, 2)
}

func TestEncodeNonEmpty_CountMismatch(t *testing.T) {
	fn := func(_ context.Context, _ []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}

	_, err := EncodeNonEmpty(context.Background(), []string{"a", "b"}, fn)
	require.ErrorIs(t, err, ErrEncoderMismatch)
}

func TestEncodeNonEmpty_ErrorPropagation(t *testing.T) {
	providerErr := errors.New("provider down")
	fn := func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, providerErr
	}

	_, err := EncodeNonEmpty(context.Background(), []string{"a"}, fn)
	require.ErrorIs(t, err, providerErr)
}

type stubEncoder struct {
	vecs [][]float32
	err  error
}

func (s *stubEncoder) Encode(_ context.Context, _ []string) ([][]float32, error) {
	return s.vecs, s.err
}

func TestEncodeOne(t *testing.T) {
	vec, err := EncodeOne(context.Background(), &stubEncoder{vecs: [][]float32{{0.1, 0.2}}}, "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)

	_, err = EncodeOne(context.Background(), &stubEncoder{vecs: [][]float32{{1}, {2}}}, "x")
	require.ErrorIs(t, err, ErrEncoderMismatch)
}

func TestEmbeddingUsage_NilSafe(t *testing.T) {
	var u *EmbeddingUsage
	u.Add(10, 1)

	ctx, usage := NewContextWithUsage(context.Background())
	UsageFromContext(ctx).Add(7, 2)
	UsageFromContext(ctx).Add(3, 1)
	assert.Equal(t, 10, usage.TotalTokens)
	assert.Equal(t, 3, usage.Texts)
	assert.Nil(t, UsageFromContext(context.Background()))
}
