package similarity

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/domain"
	"github.com/kailas-cloud/patentsim/internal/logger"
	"github.com/kailas-cloud/patentsim/internal/metrics"
	scorer "github.com/kailas-cloud/patentsim/internal/similarity"
)

// Service ranks stored patents by abstract similarity to a free-text query.
type Service struct {
	repo       Repository
	normalizer Normalizer
	encoder    domain.Encoder
}

// New creates a similarity service.
func New(repo Repository, normalizer Normalizer, encoder domain.Encoder) *Service {
	return &Service{repo: repo, normalizer: normalizer, encoder: encoder}
}

// Query scores every stored abstract against text and returns results sorted
// by descending similarity. limit <= 0 returns the whole corpus.
func (s *Service) Query(ctx context.Context, text string, limit int) ([]domain.ScoredResult, error) {
	start := time.Now()
	defer func() { metrics.QueryDuration.Observe(time.Since(start).Seconds()) }()

	processed := s.normalizer.Normalize(text)
	log := logger.FromContext(ctx)
	log.Debug("Processed query", zap.String("processed_query", processed))

	patents, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpus: %w", err)
	}
	metrics.QueryCorpusSize.Set(float64(len(patents)))
	if len(patents) == 0 {
		return []domain.ScoredResult{}, nil
	}

	queryVec, err := domain.EncodeOne(ctx, s.encoder, processed)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	numbers := make([]string, len(patents))
	abstracts := make([]string, len(patents))
	for i, p := range patents {
		numbers[i] = p.Number
		abstracts[i] = s.normalizer.Normalize(p.Abstract)
	}

	corpus, err := s.encoder.Encode(ctx, abstracts)
	if err != nil {
		return nil, fmt.Errorf("encode corpus: %w", err)
	}
	if len(corpus) != len(patents) {
		return nil, fmt.Errorf("%w: got %d vectors for %d patents", domain.ErrEncoderMismatch, len(corpus), len(patents))
	}

	scores, err := scorer.Score(queryVec, corpus)
	if err != nil {
		return nil, fmt.Errorf("score corpus: %w", err)
	}

	results, err := scorer.Rank(numbers, scores)
	if err != nil {
		return nil, fmt.Errorf("rank corpus: %w", err)
	}
	results = scorer.Top(results, limit)

	log.Debug("Similarity query completed",
		zap.Int("corpus_size", len(patents)),
		zap.Int("results", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}
