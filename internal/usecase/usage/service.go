// Package usage reports tag generation spend per budget period.
package usage

import (
	"context"
	"fmt"
	"time"

	domusage "github.com/kailas-cloud/placebook/internal/domain/usage"
	"github.com/kailas-cloud/placebook/internal/usecase/tagging"
)

// Service builds usage reports.
type Service struct {
	budget   BudgetReader
	counters CounterLoader
	prompts  PromptCounter
	now      func() time.Time
}

// New creates a Service. counters and prompts may be nil.
func New(budget BudgetReader, counters CounterLoader, prompts PromptCounter) *Service {
	return &Service{budget: budget, counters: counters, prompts: prompts, now: time.Now}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Report builds the usage report for the period containing now.
// The persisted counter wins when it is ahead of the local one, since other
// replicas add to it too.
func (s *Service) Report(ctx context.Context, period domusage.Period) (domusage.Report, error) {
	now := s.now().UTC()
	start, end := period.Window(now)

	dailyLimit, monthlyLimit := s.budget.Limits()
	dailyUsed, monthlyUsed := s.budget.Used()
	limit, used, counter := monthlyLimit, monthlyUsed, tagging.PeriodMonthly
	if period == domusage.PeriodDay {
		limit, used, counter = dailyLimit, dailyUsed, tagging.PeriodDaily
	}

	provider := s.budget.Provider()
	if s.counters != nil {
		stored, err := s.counters.Load(ctx, provider, counter, now)
		if err != nil {
			return domusage.Report{}, fmt.Errorf("load %s usage: %w", counter, err)
		}
		used = max(used, stored)
	}

	var prompts int
	if s.prompts != nil {
		n, err := s.prompts.Count(ctx)
		if err != nil {
			return domusage.Report{}, fmt.Errorf("count prompts: %w", err)
		}
		prompts = n
	}

	return domusage.Report{
		Period:      period,
		PeriodStart: start,
		PeriodEnd:   end,
		Provider:    provider,
		TokensUsed:  used,
		Budget:      domusage.NewBudget(limit, used, end),
		Prompts:     prompts,
	}, nil
}
