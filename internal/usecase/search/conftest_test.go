package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
	"github.com/kailas-cloud/storesearch/internal/domain/ranking"
	"github.com/kailas-cloud/storesearch/internal/domain/tenant"
)

type mockResolver struct {
	resolveFn func(ctx context.Context, domain string) (tenant.Tenant, error)
	calls     int
}

func (m *mockResolver) Resolve(ctx context.Context, domain string) (tenant.Tenant, error) {
	m.calls++
	return m.resolveFn(ctx, domain)
}

type mockCatalog struct {
	supportsKeyword bool
	keywordFn       func(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]candidate.Candidate, error)
	vectorFn        func(ctx context.Context, tenantID uuid.UUID, vector []float32, limit int) ([]candidate.Candidate, error)
	fallbackFn      func(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]candidate.Candidate, error)

	keywordCalls  int
	vectorCalls   int
	fallbackCalls int
}

func (m *mockCatalog) SupportsKeywordSearch(context.Context) bool { return m.supportsKeyword }

func (m *mockCatalog) SearchKeyword(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]candidate.Candidate, error) {
	m.keywordCalls++
	if m.keywordFn == nil {
		return nil, nil
	}
	return m.keywordFn(ctx, tenantID, query, limit)
}

func (m *mockCatalog) SearchVector(ctx context.Context, tenantID uuid.UUID, vector []float32, limit int) ([]candidate.Candidate, error) {
	m.vectorCalls++
	if m.vectorFn == nil {
		return nil, nil
	}
	return m.vectorFn(ctx, tenantID, vector, limit)
}

func (m *mockCatalog) SearchFallback(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]candidate.Candidate, error) {
	m.fallbackCalls++
	if m.fallbackFn == nil {
		return nil, nil
	}
	return m.fallbackFn(ctx, tenantID, query, limit)
}

type mockQueryEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
	calls   int
}

func (m *mockQueryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedFn == nil {
		return []float32{0.1, 0.2, 0.3}, nil
	}
	return m.embedFn(ctx, text)
}

// memResultCache is an in-process result cache keyed like the real one.
type memResultCache struct {
	data     map[string][]ranking.Result
	putErr   error
	getCalls int
	putCalls int
}

func newMemResultCache() *memResultCache {
	return &memResultCache{data: make(map[string][]ranking.Result)}
}

func (m *memResultCache) Get(_ context.Context, domainName, query string) ([]ranking.Result, bool) {
	m.getCalls++
	r, ok := m.data[domainName+"|"+query]
	return r, ok
}

func (m *memResultCache) Put(_ context.Context, domainName, query string, results []ranking.Result) error {
	m.putCalls++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[domainName+"|"+query] = results
	return nil
}
