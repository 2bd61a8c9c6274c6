package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/config"
	"github.com/kailas-cloud/patentsim/internal/db"
	dbBadger "github.com/kailas-cloud/patentsim/internal/db/badger"
	dbMemory "github.com/kailas-cloud/patentsim/internal/db/memory"
	dbRedis "github.com/kailas-cloud/patentsim/internal/db/redis"
	"github.com/kailas-cloud/patentsim/internal/db/sqlite"
	"github.com/kailas-cloud/patentsim/internal/domain"
	"github.com/kailas-cloud/patentsim/internal/encoder/hashing"
	"github.com/kailas-cloud/patentsim/internal/metrics"
	"github.com/kailas-cloud/patentsim/internal/repository/embcache"
	patentrepo "github.com/kailas-cloud/patentsim/internal/repository/patent"
	"github.com/kailas-cloud/patentsim/internal/textnorm"
	"github.com/kailas-cloud/patentsim/internal/transport/googlepatents"
	ollamaEnc "github.com/kailas-cloud/patentsim/internal/transport/ollama"
	openaiEnc "github.com/kailas-cloud/patentsim/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/patentsim/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/patentsim/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/patentsim/internal/usecase/ingest"
	similarityuc "github.com/kailas-cloud/patentsim/internal/usecase/similarity"
)

// services is the composition root shared by serve and ingest.
type services struct {
	store      *sqlite.Store
	cache      db.KVStore
	patents    *patentrepo.Repo
	encoder    *embeddinguc.InstrumentedEncoder
	similarity *similarityuc.Service
	ingest     *ingestuc.Service
	health     *healthuc.Service
}

// Close releases the cache and the corpus store.
func (s *services) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*sqlite.Store, error) {
	store, err := sqlite.Open(ctx, sqlite.Config{
		Path:        cfg.Path,
		BusyTimeout: time.Duration(cfg.BusyTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open corpus store %s: %w", cfg.Path, err)
	}
	return store, nil
}

func newIngestService(cfg config.Config, repo ingestuc.Repository, logger *zap.Logger) *ingestuc.Service {
	fetcher := googlepatents.New(googlepatents.Config{
		BaseURL:   cfg.Scraper.BaseURL,
		Timeout:   time.Duration(cfg.Scraper.TimeoutSec) * time.Second,
		UserAgent: cfg.Scraper.UserAgent,
		Logger:    logger,
	})
	return ingestuc.New(fetcher, repo, cfg.Ingest.Workers, logger)
}

// buildServices opens every backend named by cfg and wires the use cases.
func buildServices(ctx context.Context, cfg config.Config, logger *zap.Logger) (*services, error) {
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	svc := &services{store: store, patents: patentrepo.New(store.DB())}

	cache, err := openCache(ctx, cfg.Cache, logger)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.cache = cache

	base, err := buildBaseEncoder(cfg.Embedding, logger)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.encoder = buildEncoder(base, cfg, cache, logger)

	svc.similarity = similarityuc.New(svc.patents, textnorm.New(cfg.Normalizer.ExtraStopWords...), svc.encoder)
	svc.ingest = newIngestService(cfg, svc.patents, logger)

	// Pass a nil interface, not a typed nil pointer, when the cache is disabled.
	var cachePinger healthuc.Pinger
	if cache != nil {
		cachePinger = cache
	}
	svc.health = healthuc.New(store, svc.encoder, cachePinger)

	logger.Info("Services wired",
		zap.String("db_path", cfg.Database.Path),
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.String("cache_backend", cfg.Cache.Backend),
	)
	return svc, nil
}

// openCache returns nil when the embedding cache is disabled.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.KVStore, error) {
	switch cfg.Backend {
	case "memory":
		return dbMemory.New(), nil
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis cache: %w", err)
		}
		timeout := time.Duration(cfg.Redis.ReadinessTimeoutSec) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis cache not ready: %w", err)
		}
		logger.Info("Connected to redis cache", zap.Strings("addrs", cfg.Redis.Addrs))
		return store, nil
	case "badger":
		store, err := dbBadger.Open(dbBadger.Config{Path: cfg.Badger.Path, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open badger cache: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}

// buildBaseEncoder creates the provider at the bottom of the encoder chain.
func buildBaseEncoder(cfg config.EmbeddingConfig, logger *zap.Logger) (domain.Encoder, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	switch cfg.Provider {
	case "openai":
		return openaiEnc.NewEncoder(&openaiEnc.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Provider,
			Timeout:    timeout,
			Logger:     logger,
		}), nil
	case "ollama":
		enc, err := ollamaEnc.NewEncoder(&ollamaEnc.Config{
			ServerURL:    cfg.BaseURL,
			Model:        cfg.Model,
			MaxBatchSize: cfg.MaxBatchSize,
			Timeout:      timeout,
			Logger:       logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama encoder: %w", err)
		}
		return enc, nil
	default:
		return hashing.New(cfg.Dimensions), nil
	}
}

// buildEncoder assembles the decorator chain: provider -> cached -> instrumented.
func buildEncoder(base domain.Encoder, cfg config.Config, cache db.KVStore, logger *zap.Logger) *embeddinguc.InstrumentedEncoder {
	enc := base
	if cache != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		scope := embcache.Scope{
			Provider:   cfg.Embedding.Provider,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}
		enc = embcache.New(base, cache, scope, ttl, metrics.EmbeddingCacheTotal, logger)
	}
	return embeddinguc.NewInstrumentedEncoder(
		enc, cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.MaxBatchSize, logger,
	)
}
