package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates search is unavailable but CRUD still works.
	Degraded Status = "degraded"
	// Unhealthy indicates the document store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDatabase = "database"
	ComponentTagging  = "tagging"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	tagging TaggingChecker
	timeout time.Duration
}

// New creates a Service. tagging can be nil when search is not configured.
func New(db DBPinger, tagging TaggingChecker) *Service {
	return &Service{db: db, tagging: tagging, timeout: DefaultCheckTimeout}
}

// WithTimeout overrides the per-component check timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check pings every configured component.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		ComponentDatabase: s.checkOne(ctx, s.db.Ping),
	}
	if s.tagging != nil {
		checks[ComponentTagging] = s.checkOne(ctx, s.tagging.HealthCheck)
	}

	status := Healthy
	switch {
	case checks[ComponentDatabase] == CheckError:
		status = Unhealthy
	case checks[ComponentTagging] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) checkOne(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
