// Package tenant resolves external-facing domain strings to tenants through
// a three-stage cascade: in-memory cache, alternate-format variants, and a
// fuzzy database lookup. Failures of any stage degrade to not-found, never
// to a propagated error.
package tenant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storesearch/internal/domain"
	domtenant "github.com/kailas-cloud/storesearch/internal/domain/tenant"
	"github.com/kailas-cloud/storesearch/internal/metrics"
)

// Resolver maps domain strings to tenants. The cache is shared across
// concurrent requests; entries are independent and idempotent, so a plain
// RWMutex map suffices.
type Resolver struct {
	store  Store
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]domtenant.Tenant
}

// New creates a domain resolver with an empty cache.
func New(store Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
		cache:  make(map[string]domtenant.Tenant),
	}
}

// Resolve runs the cascade for one domain string, short-circuiting on the
// first stage that matches. All inputs with the same canonical form resolve
// identically. Every failure mode, including database errors at stage 3,
// yields domain.ErrTenantNotFound.
func (r *Resolver) Resolve(ctx context.Context, domainString string) (domtenant.Tenant, error) {
	raw := strings.ToLower(strings.TrimSpace(domainString))
	canon := domtenant.Canonicalize(domainString)
	if canon == "" {
		r.logger.Debug("Tenant resolution skipped for blank domain",
			zap.String("domain", domainString))
		return domtenant.Tenant{}, domain.ErrTenantNotFound
	}

	// Stage 1: exact cache lookup of the input as given, no I/O.
	if t, ok := r.fromCache(raw); ok {
		metrics.TenantResolutionTotal.WithLabelValues("cache").Inc()
		r.logger.Debug("Tenant resolved from cache",
			zap.String("stage", "cache"), zap.String("domain", raw))
		return t, nil
	}

	// Stage 2: normalized variants (scheme-stripped, www-toggled) retried
	// against the cache. A hit back-fills the raw form for next time.
	for _, variant := range domtenant.Variants(domainString) {
		if variant == raw {
			continue
		}
		if t, ok := r.fromCache(variant); ok {
			r.toCache(t, raw)
			metrics.TenantResolutionTotal.WithLabelValues("variant").Inc()
			r.logger.Debug("Tenant resolved from cached variant",
				zap.String("stage", "variant"),
				zap.String("domain", raw),
				zap.String("variant", variant))
			return t, nil
		}
	}

	// Stage 3: direct database fuzzy lookup. Errors are absorbed: a broken
	// database must read as not-found, not as a failed search request.
	t, err := r.store.FindByDomain(ctx, canon)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			metrics.TenantResolutionTotal.WithLabelValues("miss").Inc()
			r.logger.Info("Tenant not found after full cascade",
				zap.String("stage", "database"), zap.String("domain", canon))
			return domtenant.Tenant{}, domain.ErrTenantNotFound
		}
		metrics.TenantResolutionTotal.WithLabelValues("error").Inc()
		r.logger.Warn("Tenant lookup failed, treating as not found",
			zap.String("stage", "database"), zap.String("domain", canon), zap.Error(err))
		return domtenant.Tenant{}, domain.ErrTenantNotFound
	}

	r.toCache(t, raw, canon, "www."+canon)
	metrics.TenantResolutionTotal.WithLabelValues("database").Inc()
	r.logger.Info("Tenant resolved from database",
		zap.String("stage", "database"),
		zap.String("domain", canon),
		zap.String("tenant_id", t.ID.String()))
	return t, nil
}

// Invalidate drops a domain's cached forms (tenant offboarding, domain moves).
func (r *Resolver) Invalidate(domainString string) {
	canon := domtenant.Canonicalize(domainString)
	r.mu.Lock()
	delete(r.cache, strings.ToLower(strings.TrimSpace(domainString)))
	delete(r.cache, canon)
	delete(r.cache, "www."+canon)
	r.mu.Unlock()
}

func (r *Resolver) fromCache(key string) (domtenant.Tenant, bool) {
	r.mu.RLock()
	t, ok := r.cache[key]
	r.mu.RUnlock()
	return t, ok
}

func (r *Resolver) toCache(t domtenant.Tenant, keys ...string) {
	r.mu.Lock()
	for _, k := range keys {
		if k != "" {
			r.cache[k] = t
		}
	}
	r.mu.Unlock()
}
