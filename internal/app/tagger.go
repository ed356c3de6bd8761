package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/config"
	"github.com/kailas-cloud/placebook/internal/domain"
	"github.com/kailas-cloud/placebook/internal/metrics"
	budgetrepo "github.com/kailas-cloud/placebook/internal/repository/budget"
	"github.com/kailas-cloud/placebook/internal/repository/tagcache"
	openaiTag "github.com/kailas-cloud/placebook/internal/transport/openai"
	"github.com/kailas-cloud/placebook/internal/usecase/tagging"
)

// TagChain is an assembled tag generator plus the provider health check used by /health
// and the budget state read by /usage.
type TagChain struct {
	Generator domain.TagGenerator
	Provider  domain.HealthChecker
	Budget    *tagging.Budget
	Counters  tagging.BudgetStore // nil when counters live in process memory only
}

// Budget counter lifetimes; a window is kept a little longer than it lasts.
const (
	budgetDailyTTL   = 48 * time.Hour
	budgetMonthlyTTL = 62 * 24 * time.Hour
)

// BuildTagger assembles the decorator chain: OpenAI -> Cached -> Instrumented(+Budget).
// It returns nil when no provider key is configured. kv may be nil, which disables
// caching and keeps budget counters in process memory.
func BuildTagger(ctx context.Context, cfg config.Config, kv KVStore, logger *zap.Logger) *TagChain {
	if !cfg.AI.SearchEnabled() {
		return nil
	}

	base := openaiTag.NewTagger(&openaiTag.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		MaxTags:     cfg.AI.MaxTags,
		Timeout:     cfg.AI.Timeout(),
		Provider:    cfg.AI.Provider,
		Logger:      logger,
	})

	var gen domain.TagGenerator = base
	if cfg.TagCache.Enabled && kv != nil {
		gen = tagcache.New(base, kv, cfg.Storage.KeyPrefix, cfg.TagCache.TTL(), metrics.TagCacheTotal, logger)
	}

	return WrapTagger(ctx, cfg, gen, base, kv, logger)
}

// WrapTagger instruments gen and counts its tokens against the configured
// budget. Zero limits still count, they just never reject.
func WrapTagger(
	ctx context.Context, cfg config.Config, gen domain.TagGenerator, provider domain.HealthChecker,
	kv KVStore, logger *zap.Logger,
) *TagChain {
	b := cfg.AI.Budget
	budget := tagging.NewBudget(cfg.AI.Provider, b.DailyTokenLimit, b.MonthlyTokenLimit,
		tagging.BudgetAction(b.Action), logger)

	chain := &TagChain{Provider: provider, Budget: budget}
	if kv != nil {
		counters := budgetrepo.New(kv, cfg.Storage.KeyPrefix, budgetDailyTTL, budgetMonthlyTTL)
		budget.WithStore(ctx, counters)
		chain.Counters = counters
	}

	chain.Generator = tagging.NewInstrumentedTagger(gen, cfg.AI.Provider, cfg.AI.Model, logger).WithBudget(budget)
	return chain
}
