package domain

import "context"

type embeddingUsageKey struct{}

// EmbeddingUsage collects provider token usage for a single request.
// The handler puts a mutable pointer into the context before calling the service;
// token-metered providers write to it; the handler reads it for response headers.
type EmbeddingUsage struct {
	TotalTokens int
	Texts       int
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// Add records consumed tokens and the number of texts sent to the provider.
func (u *EmbeddingUsage) Add(tokens, texts int) {
	if u != nil {
		u.TotalTokens += tokens
		u.Texts += texts
	}
}
