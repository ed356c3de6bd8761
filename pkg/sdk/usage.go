package placebook

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/placebook/internal/domain/usage"
)

type usageUseCase interface {
	Report(ctx context.Context, period domusage.Period) (domusage.Report, error)
}

// Usage report types.
type (
	UsagePeriod = domusage.Period
	UsageReport = domusage.Report
	UsageBudget = domusage.Budget
)

// Usage periods. The zero value means month.
const (
	UsageDay   = domusage.PeriodDay
	UsageMonth = domusage.PeriodMonth
)

// Usage reports tagging token spend against the budget for the current day
// or month. It returns ErrSearchDisabled when no tagger is configured.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) (r UsageReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("usage", "report", start, err) }()

	if c.usageSvc == nil {
		return UsageReport{}, ErrSearchDisabled
	}
	p, err := domusage.ParsePeriod(string(period))
	if err != nil {
		return UsageReport{}, err
	}
	return c.usageSvc.Report(ctx, p)
}
