package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
	"github.com/kailas-cloud/storesearch/internal/domain/ranking"
	"github.com/kailas-cloud/storesearch/internal/domain/tenant"
)

// Resolver maps a domain string to a tenant.
type Resolver interface {
	Resolve(ctx context.Context, domain string) (tenant.Tenant, error)
}

// Catalog is the per-tier retrieval surface over the document store.
type Catalog interface {
	SupportsKeywordSearch(ctx context.Context) bool
	SearchKeyword(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]candidate.Candidate, error)
	SearchVector(ctx context.Context, tenantID uuid.UUID, vector []float32, limit int) ([]candidate.Candidate, error)
	SearchFallback(ctx context.Context, tenantID uuid.UUID, query string, limit int) ([]candidate.Candidate, error)
}

// QueryEmbedder produces a fresh embedding for a search query. Query text
// is never cached; only stored content embeddings are.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ResultCache stores ranked result sets keyed by domain and normalized query.
type ResultCache interface {
	Get(ctx context.Context, domainName, query string) ([]ranking.Result, bool)
	Put(ctx context.Context, domainName, query string, results []ranking.Result) error
}

// Scorer turns merged candidates into a deterministically ordered,
// explained result list.
type Scorer interface {
	Rank(cands []candidate.Candidate, rc ranking.Context) []ranking.Result
}
