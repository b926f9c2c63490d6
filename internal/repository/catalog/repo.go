// Package catalog runs the three retrieval tiers against the indexed
// product/content store: BM25 keyword search, KNN vector search, and the
// broad containment fallback.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storesearch/internal/db"
	"github.com/kailas-cloud/storesearch/internal/domain"
	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
)

// returnFields are the hash fields every tier asks the index to return.
var returnFields = []string{
	"title", "content", "price", "stock_status", "total_sales",
	"created_at", "modified_at",
}

// knnReturnFields additionally request the vector distance.
var knnReturnFields = append([]string{"__vector_score"}, returnFields...)

// store is the consumer interface for catalog search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo implements the retrieval tiers over the catalog index.
type Repo struct {
	store         store
	fallbackLimit int // documents scanned per tenant by the fallback tier
}

// New creates a catalog repository. fallbackLimit bounds the number of
// documents the fallback tier pulls for client-side matching.
func New(s store, fallbackLimit int) *Repo {
	if fallbackLimit <= 0 {
		fallbackLimit = 200
	}
	return &Repo{store: s, fallbackLimit: fallbackLimit}
}

// SupportsKeywordSearch reports whether the backend can serve the keyword tier.
func (r *Repo) SupportsKeywordSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// SearchKeyword runs the BM25 tier scoped to a tenant.
func (r *Repo) SearchKeyword(
	ctx context.Context, tenantID uuid.UUID, query string, limit int,
) ([]candidate.Candidate, error) {
	if !r.store.SupportsTextSearch(ctx) {
		return nil, domain.ErrKeywordSearchNotSupported
	}

	sr, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    indexName(),
		TenantTag:    tenantID.String(),
		Query:        query,
		TopK:         limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}

	cands := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		c := entryToCandidate(e, tenantID)
		c.KeywordScore = normalizeBM25(e.Score)
		cands = append(cands, c)
	}
	return cands, nil
}

// SearchVector runs the KNN tier scoped to a tenant. The entry score is
// already a cosine similarity in [0,1] (converted at the db layer).
func (r *Repo) SearchVector(
	ctx context.Context, tenantID uuid.UUID, vector []float32, limit int,
) ([]candidate.Candidate, error) {
	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(),
		TenantTag:    tenantID.String(),
		Vector:       vector,
		K:            limit,
		ReturnFields: knnReturnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	cands := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		c := entryToCandidate(e, tenantID)
		c.SemanticScore = e.Score
		cands = append(cands, c)
	}
	return cands, nil
}

// SearchFallback lists tenant documents and keeps those whose title or
// content contains any query token, case-insensitive. Low precision on
// purpose: it only exists to avoid returning nothing.
func (r *Repo) SearchFallback(
	ctx context.Context, tenantID uuid.UUID, query string, limit int,
) ([]candidate.Candidate, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    indexName(),
		TenantTag:    tenantID.String(),
		Offset:       0,
		Limit:        r.fallbackLimit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search list: %w", err)
	}

	cands := make([]candidate.Candidate, 0, limit)
	for _, e := range sr.Entries {
		haystack := strings.ToLower(e.Fields["title"] + " " + e.Fields["content"])
		if !containsAny(haystack, tokens) {
			continue
		}
		cands = append(cands, entryToCandidate(e, tenantID))
		if len(cands) >= limit {
			break
		}
	}
	return cands, nil
}

func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

// normalizeBM25 squashes an unbounded BM25 score into [0,1).
// score/(score+1) keeps ordering and saturates smoothly; a raw score of 1.0
// maps to 0.5, which is the keyword-confidence midpoint.
func normalizeBM25(score float64) float64 {
	if score <= 0 {
		return 0
	}
	return score / (score + 1)
}

func indexName() string {
	return domain.KeyPrefix + "catalog:idx"
}

// docKeyPrefix is the per-tenant key prefix of catalog documents.
func docKeyPrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("%scatalog:%s:", domain.KeyPrefix, tenantID)
}
