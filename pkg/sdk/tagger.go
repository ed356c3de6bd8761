package placebook

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Tagger turns a free-text prompt into place search tags.
type Tagger interface {
	Tag(ctx context.Context, prompt string) (TagResult, error)
}

// TaggerHealthChecker is optionally implemented by a Tagger to take part in Health.
type TaggerHealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// taggerAdapter wraps a public Tagger to satisfy domain.TagGenerator.
// Token usage is recorded by the instrumenting decorator around it.
type taggerAdapter struct {
	inner Tagger
}

func (a *taggerAdapter) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	r, err := a.inner.Tag(ctx, prompt)
	if err != nil {
		return domain.Generation{}, fmt.Errorf("tag: %w", err)
	}

	gen := domain.Generation{PromptTokens: r.PromptTokens, TotalTokens: r.TotalTokens}
	if r.Refusal != nil {
		gen.Refusal = &domain.Refusal{Reason: r.Refusal.Reason, Status: r.Refusal.Status}
		return gen, nil
	}
	gen.Tags = domain.NormalizeTags(r.Tags)
	return gen, nil
}

func (a *taggerAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(TaggerHealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
