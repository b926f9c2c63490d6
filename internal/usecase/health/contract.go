package health

import "context"

// StorePinger checks the search store (index and cache backend).
type StorePinger interface {
	Ping(ctx context.Context) error
}

// TenantDBPinger checks the tenant registry database.
type TenantDBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
