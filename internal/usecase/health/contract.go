package health

import "context"

// Pinger checks backend availability (corpus store, embedding cache).
type Pinger interface {
	Ping(ctx context.Context) error
}

// EncoderChecker checks embedding provider availability.
type EncoderChecker interface {
	HealthCheck(ctx context.Context) error
}
