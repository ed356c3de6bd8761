package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	domusage "github.com/kailas-cloud/placebook/internal/domain/usage"
)

// --- Mocks ---

type mockBudgetReader struct {
	dailyLimit, monthlyLimit int64
	dailyUsed, monthlyUsed   int64
}

func (m *mockBudgetReader) Provider() string { return "openai" }

func (m *mockBudgetReader) Limits() (daily, monthly int64) {
	return m.dailyLimit, m.monthlyLimit
}

func (m *mockBudgetReader) Used() (daily, monthly int64) {
	return m.dailyUsed, m.monthlyUsed
}

type mockCounters struct {
	values map[string]int64
	err    error
	loaded []string
}

func (m *mockCounters) Load(_ context.Context, provider, period string, _ time.Time) (int64, error) {
	m.loaded = append(m.loaded, provider+":"+period)
	return m.values[period], m.err
}

type mockPrompts struct {
	n   int
	err error
}

func (m mockPrompts) Count(context.Context) (int, error) { return m.n, m.err }

var fixedNow = time.Date(2026, 5, 14, 9, 30, 0, 0, time.UTC)

// --- Tests ---

func TestReport(t *testing.T) {
	br := &mockBudgetReader{dailyLimit: 10000, monthlyLimit: 100000, dailyUsed: 3000, monthlyUsed: 50000}

	tests := []struct {
		name          string
		period        domusage.Period
		counters      map[string]int64
		wantStart     time.Time
		wantEnd       time.Time
		wantUsed      int64
		wantLimit     int64
		wantRemaining int64
	}{
		{
			name:          "day from local counters",
			period:        domusage.PeriodDay,
			wantStart:     time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC),
			wantEnd:       time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
			wantUsed:      3000,
			wantLimit:     10000,
			wantRemaining: 7000,
		},
		{
			name:          "month with other replicas ahead",
			period:        domusage.PeriodMonth,
			counters:      map[string]int64{"monthly": 80000},
			wantStart:     time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:       time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			wantUsed:      80000,
			wantLimit:     100000,
			wantRemaining: 20000,
		},
		{
			name:          "stale persisted counter loses",
			period:        domusage.PeriodDay,
			counters:      map[string]int64{"daily": 1000},
			wantStart:     time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC),
			wantEnd:       time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
			wantUsed:      3000,
			wantLimit:     10000,
			wantRemaining: 7000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var counters CounterLoader
			if tt.counters != nil {
				counters = &mockCounters{values: tt.counters}
			}
			svc := New(br, counters, mockPrompts{n: 4}).WithClock(func() time.Time { return fixedNow })

			r, err := svc.Report(context.Background(), tt.period)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Period != tt.period || r.Provider != "openai" || r.Prompts != 4 {
				t.Errorf("report header = %+v", r)
			}
			if !r.PeriodStart.Equal(tt.wantStart) || !r.PeriodEnd.Equal(tt.wantEnd) {
				t.Errorf("window = [%v, %v), want [%v, %v)", r.PeriodStart, r.PeriodEnd, tt.wantStart, tt.wantEnd)
			}
			if r.TokensUsed != tt.wantUsed {
				t.Errorf("used = %d, want %d", r.TokensUsed, tt.wantUsed)
			}
			if r.Budget.TokensLimit != tt.wantLimit || r.Budget.TokensRemaining != tt.wantRemaining {
				t.Errorf("budget = %+v, want limit %d remaining %d", r.Budget, tt.wantLimit, tt.wantRemaining)
			}
			if !r.Budget.ResetsAt.Equal(tt.wantEnd) {
				t.Errorf("resetsAt = %v, want %v", r.Budget.ResetsAt, tt.wantEnd)
			}
		})
	}
}

func TestReport_LoadsMatchingCounter(t *testing.T) {
	counters := &mockCounters{values: map[string]int64{}}
	svc := New(&mockBudgetReader{}, counters, nil).WithClock(func() time.Time { return fixedNow })

	for _, p := range []domusage.Period{domusage.PeriodDay, domusage.PeriodMonth} {
		if _, err := svc.Report(context.Background(), p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	want := []string{"openai:daily", "openai:monthly"}
	if len(counters.loaded) != 2 || counters.loaded[0] != want[0] || counters.loaded[1] != want[1] {
		t.Errorf("loaded = %v, want %v", counters.loaded, want)
	}
}

func TestReport_Unlimited(t *testing.T) {
	svc := New(&mockBudgetReader{dailyUsed: 42, monthlyUsed: 42}, nil, nil)

	r, err := svc.Report(context.Background(), domusage.PeriodDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TokensUsed != 42 || r.Budget.TokensRemaining != -1 || r.Budget.Exhausted {
		t.Errorf("unexpected unlimited report: %+v", r)
	}
}

func TestReport_Exhausted(t *testing.T) {
	svc := New(&mockBudgetReader{dailyLimit: 100, dailyUsed: 100}, nil, nil)

	r, err := svc.Report(context.Background(), domusage.PeriodDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Budget.Exhausted || r.Budget.TokensRemaining != 0 {
		t.Errorf("expected exhausted budget, got %+v", r.Budget)
	}
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		counters CounterLoader
		prompts  PromptCounter
	}{
		{name: "counter load", counters: &mockCounters{err: errors.New("conn refused")}},
		{name: "prompt count", prompts: mockPrompts{err: errors.New("conn refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockBudgetReader{}, tt.counters, tt.prompts)
			if _, err := svc.Report(context.Background(), domusage.PeriodMonth); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
