package usage

import (
	"context"
	"time"
)

// BudgetReader provides read-only access to the in-process token budget.
type BudgetReader interface {
	Provider() string
	Limits() (daily, monthly int64)
	Used() (daily, monthly int64)
}

// CounterLoader reads the persisted token counters shared by every replica.
type CounterLoader interface {
	Load(ctx context.Context, provider, period string, t time.Time) (int64, error)
}

// PromptCounter counts stored prompt history entries.
type PromptCounter interface {
	Count(ctx context.Context) (int, error)
}
