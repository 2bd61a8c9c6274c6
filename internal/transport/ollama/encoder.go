// Package ollama encodes text with a local Ollama server through langchaingo.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/domain"
)

// Config holds the Ollama connection settings.
type Config struct {
	ServerURL    string
	Model        string
	MaxBatchSize int
	Timeout      time.Duration
	Logger       *zap.Logger
}

// Encoder implements domain.Encoder on top of a langchaingo embedder.
type Encoder struct {
	embedder embeddings.Embedder
	model    string
	logger   *zap.Logger
}

// NewEncoder creates an encoder backed by an Ollama server.
func NewEncoder(cfg *Config) (*Encoder, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.ServerURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return newWithClient(llm, cfg)
}

func newWithClient(client embeddings.EmbedderClient, cfg *Config) (*Encoder, error) {
	embOpts := []embeddings.Option{embeddings.WithStripNewLines(true)}
	if cfg.MaxBatchSize > 0 {
		embOpts = append(embOpts, embeddings.WithBatchSize(cfg.MaxBatchSize))
	}
	embedder, err := embeddings.NewEmbedder(client, embOpts...)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{embedder: embedder, model: cfg.Model, logger: logger}, nil
}

// Encode implements domain.Encoder. Empty texts are not sent and map to nil vectors.
func (e *Encoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	return domain.EncodeNonEmpty(ctx, texts, e.embedDocuments)
}

func (e *Encoder) embedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("Generating embeddings", zap.String("model", e.model), zap.Int("texts", len(texts)))

	vecs, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ollama embed %d texts: %v: %w", len(texts), err, domain.ErrEncoderUnavailable)
	}
	return vecs, nil
}
