package tagging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// BudgetAction defines behavior when the token budget is exhausted.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject fails the request with domain.ErrTagQuotaExceeded.
	BudgetActionReject BudgetAction = "reject"
)

// Budget periods, matching the persisted counter names.
const (
	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
)

// BudgetStore persists token counters per provider and period window.
type BudgetStore interface {
	Add(ctx context.Context, provider, period string, t time.Time, tokens int64) error
	Load(ctx context.Context, provider, period string, t time.Time) (int64, error)
}

// Budget tracks tagging tokens against daily and monthly caps. A zero cap is unlimited.
// Check reads in-memory counters only; Record updates them and writes through to the store.
type Budget struct {
	mu           sync.Mutex
	provider     string
	dailyLimit   int64
	monthlyLimit int64
	action       BudgetAction
	dailyUsed    int64
	monthlyUsed  int64
	day          time.Time
	month        time.Time
	store        BudgetStore
	now          func() time.Time
	logger       *zap.Logger
}

// NewBudget creates a tracker starting from zero usage.
func NewBudget(provider string, dailyLimit, monthlyLimit int64, action BudgetAction, logger *zap.Logger) *Budget {
	b := &Budget{
		provider:     provider,
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		action:       action,
		now:          time.Now,
		logger:       logger,
	}
	b.day, b.month = b.windows()
	return b
}

// WithClock overrides the time source.
func (b *Budget) WithClock(now func() time.Time) *Budget {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
	b.day, b.month = b.windows()
	return b
}

// WithStore attaches persistence and loads the current window counters.
// Load failures are logged and leave the counters at zero.
func (b *Budget) WithStore(ctx context.Context, store BudgetStore) *Budget {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now()
	if v, err := store.Load(ctx, b.provider, PeriodDaily, now); err == nil {
		b.dailyUsed = v
	} else {
		b.logger.Warn("Failed to load daily tagging budget", zap.Error(err))
	}
	if v, err := store.Load(ctx, b.provider, PeriodMonthly, now); err == nil {
		b.monthlyUsed = v
	} else {
		b.logger.Warn("Failed to load monthly tagging budget", zap.Error(err))
	}

	b.logger.Info("Tagging budget loaded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("monthly_used", b.monthlyUsed),
	)
	return b
}

// Check reports whether a new generation may run.
func (b *Budget) Check() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()

	daily := b.dailyLimit > 0 && b.dailyUsed >= b.dailyLimit
	monthly := b.monthlyLimit > 0 && b.monthlyUsed >= b.monthlyLimit
	if !daily && !monthly {
		return nil
	}

	if b.action == BudgetActionReject {
		return domain.ErrTagQuotaExceeded
	}
	b.logger.Warn("Tagging token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("daily_limit", b.dailyLimit),
		zap.Int64("monthly_used", b.monthlyUsed),
		zap.Int64("monthly_limit", b.monthlyLimit),
	)
	return nil
}

// Record adds consumed tokens. Store writes use their own short deadline so a
// cancelled request still gets billed.
func (b *Budget) Record(tokens int64) {
	if tokens <= 0 {
		return
	}

	b.mu.Lock()
	b.rollover()
	b.dailyUsed += tokens
	b.monthlyUsed += tokens
	store, now := b.store, b.now()
	b.mu.Unlock()

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, period := range []string{PeriodDaily, PeriodMonthly} {
		if err := store.Add(ctx, b.provider, period, now, tokens); err != nil {
			b.logger.Warn("Failed to persist tagging budget",
				zap.String("period", period),
				zap.Error(err),
			)
		}
	}
}

// Provider returns the provider whose tokens are counted.
func (b *Budget) Provider() string { return b.provider }

// Limits returns the daily and monthly caps; zero is unlimited.
func (b *Budget) Limits() (daily, monthly int64) {
	return b.dailyLimit, b.monthlyLimit
}

// Used returns the tokens counted by this process in the current windows,
// including what was loaded from the store at startup.
func (b *Budget) Used() (daily, monthly int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.dailyUsed, b.monthlyUsed
}

// rollover zeroes counters when the day or month changes. Caller holds mu.
func (b *Budget) rollover() {
	day, month := b.windows()
	if day.After(b.day) {
		b.dailyUsed = 0
		b.day = day
	}
	if month.After(b.month) {
		b.monthlyUsed = 0
		b.month = month
	}
}

func (b *Budget) windows() (day, month time.Time) {
	t := b.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
