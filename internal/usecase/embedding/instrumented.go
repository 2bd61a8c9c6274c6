package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/domain"
	"github.com/kailas-cloud/patentsim/internal/metrics"
)

// DefaultMaxBatchSize is the maximum number of texts sent to the provider in one call.
const DefaultMaxBatchSize = 256

// InstrumentedEncoder wraps an Encoder with chunking, metrics and logging.
// Token metrics are recorded by token-metered transports; this layer owns
// request counts, latency and text volume.
type InstrumentedEncoder struct {
	inner        domain.Encoder
	provider     string
	model        string
	maxBatchSize int
	logger       *zap.Logger
}

// NewInstrumentedEncoder wraps an encoder with observability.
// maxBatchSize <= 0 selects DefaultMaxBatchSize.
func NewInstrumentedEncoder(
	inner domain.Encoder, provider, model string,
	maxBatchSize int, logger *zap.Logger,
) *InstrumentedEncoder {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &InstrumentedEncoder{
		inner:        inner,
		provider:     provider,
		model:        model,
		maxBatchSize: maxBatchSize,
		logger:       logger,
	}
}

// Encode splits texts into chunks and delegates each chunk to the inner encoder.
// The output is positionally aligned with texts.
func (p *InstrumentedEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	out := make([][]float32, 0, len(texts))

	for offset := 0; offset < len(texts); offset += p.maxBatchSize {
		end := min(offset+p.maxBatchSize, len(texts))
		chunk := texts[offset:end]

		vecs, err := p.encodeChunk(ctx, chunk)
		if err != nil {
			p.logger.Error("Encode request failed",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Int("chunk_offset", offset),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return nil, fmt.Errorf("encode chunk at %d: %w", offset, err)
		}
		out = append(out, vecs...)
	}

	p.logger.Debug("Encode completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("batch_size", len(texts)),
	)

	return out, nil
}

// HealthCheck delegates to the inner encoder when it supports health checks.
func (p *InstrumentedEncoder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (p *InstrumentedEncoder) encodeChunk(ctx context.Context, chunk []string) ([][]float32, error) {
	start := time.Now()
	vecs, err := p.inner.Encode(ctx, chunk)
	duration := time.Since(start)

	if err != nil {
		metrics.EncoderRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		metrics.EncoderErrorsTotal.WithLabelValues(p.provider, p.model, "provider_error").Inc()
		return nil, err
	}
	if len(vecs) != len(chunk) {
		metrics.EncoderRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		metrics.EncoderErrorsTotal.WithLabelValues(p.provider, p.model, "count_mismatch").Inc()
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEncoderMismatch, len(vecs), len(chunk))
	}

	metrics.EncoderRequestsTotal.WithLabelValues(p.provider, p.model, "success").Inc()
	metrics.EncoderRequestDuration.WithLabelValues(p.provider, p.model).Observe(duration.Seconds())
	metrics.EncoderTextsTotal.WithLabelValues(p.provider, p.model).Add(float64(len(chunk)))
	return vecs, nil
}
