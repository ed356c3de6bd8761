// Package usage describes tag generation spend against the token budget.
package usage

import (
	"time"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Period is the budget window a report covers.
type Period string

// Report periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts "day" or "month". An empty value means month.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodMonth:
		return PeriodMonth, nil
	case PeriodDay:
		return PeriodDay, nil
	default:
		return "", domain.NewValidationError("period", "must be day or month")
	}
}

// Window returns the UTC window [start, end) of the period containing t.
func (p Period) Window(t time.Time) (start, end time.Time) {
	t = t.UTC()
	if p == PeriodDay {
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	}
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Report is the tagging spend of one period.
type Report struct {
	Period      Period    `json:"period"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Provider    string    `json:"provider"`
	TokensUsed  int64     `json:"tokensUsed"`
	Budget      Budget    `json:"budget"`
	Prompts     int       `json:"prompts"` // stored prompt history entries, all time
}

// Budget is the cap state of one period.
type Budget struct {
	TokensLimit     int64     `json:"tokensLimit"`     // 0 is unlimited
	TokensRemaining int64     `json:"tokensRemaining"` // -1 is unlimited
	Exhausted       bool      `json:"exhausted"`
	ResetsAt        time.Time `json:"resetsAt"`
}

// NewBudget derives the remaining tokens from limit and used.
func NewBudget(limit, used int64, resetsAt time.Time) Budget {
	if limit <= 0 {
		return Budget{TokensRemaining: -1, ResetsAt: resetsAt}
	}
	remaining := max(limit-used, 0)
	return Budget{
		TokensLimit:     limit,
		TokensRemaining: remaining,
		Exhausted:       remaining == 0,
		ResetsAt:        resetsAt,
	}
}
