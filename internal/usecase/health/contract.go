package health

import "context"

// StorePinger checks the durable rex store.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// Checker checks an optional external dependency (keyword model, keyword cache).
type Checker interface {
	HealthCheck(ctx context.Context) error
}
