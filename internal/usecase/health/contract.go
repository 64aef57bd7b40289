package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Checker is an optional named component check.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
