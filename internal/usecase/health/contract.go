package health

import "context"

// DBPinger checks document store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// TaggingChecker checks tag provider availability.
type TaggingChecker interface {
	HealthCheck(ctx context.Context) error
}
