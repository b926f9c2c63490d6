// Package tenant looks tenants up by domain string in the relational store.
// It is the last stage of the resolution cascade, behind the in-memory cache.
package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/storesearch/internal/domain"
	domtenant "github.com/kailas-cloud/storesearch/internal/domain/tenant"
)

// querier is the consumer interface over pgxpool (ISP, mockable).
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements tenant lookup over Postgres.
type Repo struct {
	db querier
}

// New creates a tenant repository from a pgx pool.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{db: pool}
}

// NewWithQuerier creates a tenant repository with an explicit querier (tests).
func NewWithQuerier(q querier) *Repo {
	return &Repo{db: q}
}

// FindByDomain resolves a canonical domain to a tenant. The match is fuzzy:
// exact, "www."-prefixed, and suffix LIKE, preferring exact. Historical
// domain aliases live in the same table, so at most one active row matches.
func (r *Repo) FindByDomain(ctx context.Context, canonicalDomain string) (domtenant.Tenant, error) {
	const query = `
		SELECT id, domain
		FROM tenants
		WHERE active
		  AND (domain = $1 OR domain = $2 OR domain LIKE $3)
		ORDER BY (domain = $1) DESC, (domain = $2) DESC
		LIMIT 1
	`

	var t domtenant.Tenant
	err := r.db.QueryRow(ctx, query,
		canonicalDomain,
		"www."+canonicalDomain,
		"%"+canonicalDomain,
	).Scan(&t.ID, &t.Domain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domtenant.Tenant{}, domain.ErrTenantNotFound
		}
		return domtenant.Tenant{}, fmt.Errorf("query tenant by domain: %w", err)
	}

	t.Domain = domtenant.Canonicalize(t.Domain)
	return t, nil
}
