package tenant

import (
	"context"

	domtenant "github.com/kailas-cloud/storesearch/internal/domain/tenant"
)

type mockStore struct {
	findFn func(ctx context.Context, domain string) (domtenant.Tenant, error)
	calls  int
}

func (m *mockStore) FindByDomain(ctx context.Context, domain string) (domtenant.Tenant, error) {
	m.calls++
	if m.findFn != nil {
		return m.findFn(ctx, domain)
	}
	return domtenant.Tenant{}, nil
}
