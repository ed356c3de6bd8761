// Package tagging decorates a tag generator with logging, refusal metrics,
// per-request usage and an optional token budget.
package tagging

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/domain"
	"github.com/kailas-cloud/placebook/internal/metrics"
)

// InstrumentedTagger wraps a TagGenerator with observability.
// Transport metrics (requests, duration, tokens) are recorded in transport/openai.
// This layer owns refusal metrics and the request-scoped TaggingUsage.
type InstrumentedTagger struct {
	inner    domain.TagGenerator
	provider string
	model    string
	budget   *Budget
	logger   *zap.Logger
}

// NewInstrumentedTagger wraps a tag generator.
func NewInstrumentedTagger(inner domain.TagGenerator, provider, model string, logger *zap.Logger) *InstrumentedTagger {
	return &InstrumentedTagger{
		inner:    inner,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// WithBudget enforces a token budget before each generation.
func (p *InstrumentedTagger) WithBudget(b *Budget) *InstrumentedTagger {
	p.budget = b
	return p
}

// Generate delegates to the inner generator and records usage.
func (p *InstrumentedTagger) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	if p.budget != nil {
		if err := p.budget.Check(); err != nil {
			p.logger.Warn("Tag generation rejected by budget",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
			)
			return domain.Generation{}, fmt.Errorf("generate tags: %w", err)
		}
	}

	start := time.Now()

	gen, err := p.inner.Generate(ctx, prompt)

	duration := time.Since(start)

	if err != nil {
		metrics.TaggingErrorsTotal.WithLabelValues(p.provider, p.model).Inc()
		p.logger.Error("Tag generation failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Generation{}, fmt.Errorf("generate tags: %w", err)
	}

	domain.UsageFromContext(ctx).AddTokens(gen.TotalTokens)
	if p.budget != nil {
		p.budget.Record(int64(gen.TotalTokens))
	}

	if gen.Refused() {
		metrics.TaggingRefusalsTotal.WithLabelValues(p.provider, p.model, gen.Refusal.Status).Inc()
		p.logger.Info("Tag generation refused",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.String("status", gen.Refusal.Status),
			zap.String("reason", gen.Refusal.Reason),
		)
		return gen, nil
	}

	p.logger.Debug("Tag generation completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Strings("tags", gen.Tags),
		zap.Int("prompt_tokens", gen.PromptTokens),
		zap.Int("total_tokens", gen.TotalTokens),
	)

	return gen, nil
}
