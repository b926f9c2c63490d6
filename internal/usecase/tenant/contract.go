package tenant

import (
	"context"

	domtenant "github.com/kailas-cloud/storesearch/internal/domain/tenant"
)

// Store is the persistent tenant lookup behind the in-memory cache.
type Store interface {
	FindByDomain(ctx context.Context, canonicalDomain string) (domtenant.Tenant, error)
}
