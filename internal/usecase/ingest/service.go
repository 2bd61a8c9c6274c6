package ingest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/metrics"
)

// Summary reports the outcome of one ingestion run.
type Summary struct {
	RunID      string `json:"run_id"`
	Requested  int    `json:"requested"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
}

type outcome int

const (
	outcomeInserted outcome = iota
	outcomeDuplicate
	outcomeFailed
)

// Service fetches patent pages and stores them.
// A failure for one number is logged and counted; it never aborts the run.
type Service struct {
	fetcher Fetcher
	repo    Repository
	workers int
	logger  *zap.Logger
}

// New creates an ingestion service. workers < 1 means sequential processing.
func New(fetcher Fetcher, repo Repository, workers int, logger *zap.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{fetcher: fetcher, repo: repo, workers: workers, logger: logger}
}

// Ingest processes the given numbers. Blank numbers are skipped.
// The returned error is non-nil only when the worker pool cannot be created.
func (s *Service) Ingest(ctx context.Context, numbers []string) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Requested: len(numbers)}
	log := s.logger.With(zap.String("run_id", sum.RunID))
	start := time.Now()

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return sum, fmt.Errorf("create ingest pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	record := func(o outcome) {
		mu.Lock()
		defer mu.Unlock()
		switch o {
		case outcomeInserted:
			sum.Inserted++
			metrics.IngestPatentsTotal.WithLabelValues("inserted").Inc()
		case outcomeDuplicate:
			sum.Duplicates++
			metrics.IngestPatentsTotal.WithLabelValues("duplicate").Inc()
		case outcomeFailed:
			sum.Failed++
			metrics.IngestPatentsTotal.WithLabelValues("failed").Inc()
		}
	}

	for _, raw := range numbers {
		number := strings.TrimSpace(raw)
		if number == "" {
			sum.Skipped++
			metrics.IngestPatentsTotal.WithLabelValues("skipped").Inc()
			continue
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			record(s.ingestOne(ctx, log, number))
		}); err != nil {
			wg.Done()
			log.Error("Failed to schedule patent", zap.String("number", number), zap.Error(err))
			record(outcomeFailed)
		}
	}
	wg.Wait()

	log.Info("Ingestion finished",
		zap.Int("requested", sum.Requested),
		zap.Int("inserted", sum.Inserted),
		zap.Int("duplicates", sum.Duplicates),
		zap.Int("failed", sum.Failed),
		zap.Int("skipped", sum.Skipped),
		zap.Duration("duration", time.Since(start)),
	)
	return sum, nil
}

func (s *Service) ingestOne(ctx context.Context, log *zap.Logger, number string) outcome {
	p, err := s.fetcher.Fetch(ctx, number)
	if err != nil {
		log.Error("Failed to fetch patent", zap.String("number", number), zap.Error(err))
		return outcomeFailed
	}

	inserted, err := s.repo.Upsert(ctx, p)
	if err != nil {
		log.Error("Failed to store patent", zap.String("number", number), zap.Error(err))
		return outcomeFailed
	}
	if !inserted {
		log.Debug("Patent already stored", zap.String("number", number))
		return outcomeDuplicate
	}

	log.Info("Patent stored", zap.String("number", number), zap.String("title", p.Title))
	return outcomeInserted
}
