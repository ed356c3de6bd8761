package placebook

import (
	"context"

	healthuc "github.com/kailas-cloud/placebook/internal/usecase/health"
)

// HealthState is the aggregated state reported by Client.Health.
type HealthState string

// Health states.
const (
	HealthOK       HealthState = HealthState(healthuc.Healthy)
	HealthDegraded HealthState = HealthState(healthuc.Degraded)
	HealthError    HealthState = HealthState(healthuc.Unhealthy)
)

// HealthStatus is the outcome of Client.Health. Checks maps a component
// ("database", "tagging") to "ok" or "error"; tagging is absent without a tagger.
type HealthStatus struct {
	Status HealthState
	Checks map[string]string
}

// Healthy reports whether every checked component answered.
func (h HealthStatus) Healthy() bool { return h.Status == HealthOK }

// Searchable reports whether tag search can currently run.
func (h HealthStatus) Searchable() bool {
	return h.Checks[healthuc.ComponentTagging] == string(healthuc.CheckOK)
}

// Health checks the store and, when configured, the tag provider.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: HealthState(report.Status),
		Checks: checks,
	}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
