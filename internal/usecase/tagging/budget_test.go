package tagging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/domain"
)

type memBudgetStore struct {
	mu      sync.Mutex
	values  map[string]int64
	loadErr error
}

func newMemBudgetStore() *memBudgetStore {
	return &memBudgetStore{values: map[string]int64{}}
}

func (m *memBudgetStore) key(provider, period string, t time.Time) string {
	if period == PeriodDaily {
		return provider + ":" + period + ":" + t.Format("2006-01-02")
	}
	return provider + ":" + period + ":" + t.Format("2006-01")
}

func (m *memBudgetStore) Add(_ context.Context, provider, period string, t time.Time, tokens int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[m.key(provider, period, t)] += tokens
	return nil
}

func (m *memBudgetStore) Load(_ context.Context, provider, period string, t time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	return m.values[m.key(provider, period, t)], nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestBudget_RejectWhenDailyExceeded(t *testing.T) {
	b := NewBudget("openai", 100, 0, BudgetActionReject, zap.NewNop())
	b.Record(100)

	if err := b.Check(); !errors.Is(err, domain.ErrTagQuotaExceeded) {
		t.Fatalf("expected ErrTagQuotaExceeded, got %v", err)
	}
}

func TestBudget_RejectWhenMonthlyExceeded(t *testing.T) {
	b := NewBudget("openai", 0, 500, BudgetActionReject, zap.NewNop())
	b.Record(500)

	if err := b.Check(); !errors.Is(err, domain.ErrTagQuotaExceeded) {
		t.Fatalf("expected ErrTagQuotaExceeded, got %v", err)
	}
}

func TestBudget_WarnAllows(t *testing.T) {
	b := NewBudget("openai", 100, 0, BudgetActionWarn, zap.NewNop())
	b.Record(200)

	if err := b.Check(); err != nil {
		t.Fatalf("expected nil for warn action, got %v", err)
	}
}

func TestBudget_Unlimited(t *testing.T) {
	b := NewBudget("openai", 0, 0, BudgetActionReject, zap.NewNop())
	b.Record(1 << 40)

	if err := b.Check(); err != nil {
		t.Fatalf("expected nil for unlimited budget, got %v", err)
	}
	if daily, monthly := b.Used(); daily != 1<<40 || monthly != 1<<40 {
		t.Errorf("used = (%d, %d), want tokens counted without caps", daily, monthly)
	}
}

func TestBudget_RecordIgnoresNonPositive(t *testing.T) {
	tests := []struct {
		name   string
		tokens []int64
		want   int64
	}{
		{name: "positive", tokens: []int64{300}, want: 300},
		{name: "zero and negative", tokens: []int64{300, 0, -5}, want: 300},
		{name: "overspend", tokens: []int64{300, 5000}, want: 5300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBudget("openai", 1000, 10000, BudgetActionWarn, zap.NewNop())
			for _, n := range tt.tokens {
				b.Record(n)
			}
			if daily, monthly := b.Used(); daily != tt.want || monthly != tt.want {
				t.Errorf("used = (%d, %d), want %d", daily, monthly, tt.want)
			}
		})
	}
}

func TestBudget_Readers(t *testing.T) {
	c := &clock{t: time.Date(2026, 5, 31, 23, 0, 0, 0, time.UTC)}
	b := NewBudget("openai", 500, 0, BudgetActionWarn, zap.NewNop()).WithClock(c.now)
	b.Record(120)

	if b.Provider() != "openai" {
		t.Errorf("provider = %q", b.Provider())
	}
	if daily, monthly := b.Limits(); daily != 500 || monthly != 0 {
		t.Errorf("limits = (%d, %d), want (500, 0)", daily, monthly)
	}
	if daily, monthly := b.Used(); daily != 120 || monthly != 120 {
		t.Errorf("used = (%d, %d), want (120, 120)", daily, monthly)
	}

	c.t = c.t.Add(2 * time.Hour) // next day, next month
	if daily, monthly := b.Used(); daily != 0 || monthly != 0 {
		t.Errorf("used after rollover = (%d, %d), want (0, 0)", daily, monthly)
	}
}

func TestBudget_DailyRollover(t *testing.T) {
	c := &clock{t: time.Date(2026, 5, 10, 23, 59, 0, 0, time.UTC)}
	b := NewBudget("openai", 100, 1000, BudgetActionReject, zap.NewNop()).WithClock(c.now)
	b.Record(100)
	if err := b.Check(); err == nil {
		t.Fatal("expected rejection before midnight")
	}

	c.t = c.t.Add(2 * time.Minute)
	if err := b.Check(); err != nil {
		t.Fatalf("expected daily counter reset after midnight, got %v", err)
	}
	if _, monthly := b.Used(); monthly != 100 {
		t.Errorf("monthly used = %d, want 100 (same month)", monthly)
	}
}

func TestBudget_MonthlyRollover(t *testing.T) {
	c := &clock{t: time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)}
	b := NewBudget("openai", 0, 100, BudgetActionReject, zap.NewNop()).WithClock(c.now)
	b.Record(100)

	c.t = time.Date(2026, 6, 1, 0, 0, 1, 0, time.UTC)
	if err := b.Check(); err != nil {
		t.Fatalf("expected monthly counter reset, got %v", err)
	}
}

func TestBudget_PersistsAndReloads(t *testing.T) {
	store := newMemBudgetStore()
	c := &clock{t: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)}

	first := NewBudget("openai", 100, 0, BudgetActionReject, zap.NewNop()).
		WithClock(c.now).
		WithStore(context.Background(), store)
	first.Record(60)
	first.Record(40)

	second := NewBudget("openai", 100, 0, BudgetActionReject, zap.NewNop()).
		WithClock(c.now).
		WithStore(context.Background(), store)
	if err := second.Check(); !errors.Is(err, domain.ErrTagQuotaExceeded) {
		t.Fatalf("expected reloaded budget to reject, got %v", err)
	}
}

func TestBudget_LoadFailureStartsAtZero(t *testing.T) {
	store := newMemBudgetStore()
	store.loadErr = errors.New("store down")

	b := NewBudget("openai", 100, 0, BudgetActionReject, zap.NewNop()).
		WithStore(context.Background(), store)
	if err := b.Check(); err != nil {
		t.Fatalf("expected fresh budget after load failure, got %v", err)
	}
}

func TestBudget_ConcurrentRecord(t *testing.T) {
	b := NewBudget("openai", 0, 0, BudgetActionWarn, zap.NewNop())

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Record(2)
			_ = b.Check()
		}()
	}
	wg.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dailyUsed != 100 {
		t.Errorf("dailyUsed = %d, want 100", b.dailyUsed)
	}
}

func TestInstrumentedTagger_BudgetRejects(t *testing.T) {
	inner := &mockTagger{gen: domain.Generation{Tags: []string{"cafe"}, TotalTokens: 10}}
	b := NewBudget("openai", 10, 0, BudgetActionReject, zap.NewNop())
	p := NewInstrumentedTagger(inner, "openai", "m", zap.NewNop()).WithBudget(b)

	if _, err := p.Generate(context.Background(), "coffee"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, err := p.Generate(context.Background(), "coffee")
	if !errors.Is(err, domain.ErrTagQuotaExceeded) {
		t.Fatalf("expected ErrTagQuotaExceeded, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
}
