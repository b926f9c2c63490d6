// Package search orchestrates the retrieval cascade: result cache, tenant
// resolution, keyword tier, vector tier, fallback tier, then ranking. Tier
// failures degrade to empty results; the pipeline never surfaces a backend
// error to the caller.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/storesearch/internal/domain"
	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
	"github.com/kailas-cloud/storesearch/internal/domain/ranking"
	"github.com/kailas-cloud/storesearch/internal/domain/tenant"
	"github.com/kailas-cloud/storesearch/internal/domain/tier"
	"github.com/kailas-cloud/storesearch/internal/metrics"
)

// Terminal reasons reported with every response.
const (
	ReasonOK                = "ok"
	ReasonCacheHit          = "cache_hit"
	ReasonEmptyQuery        = "empty_query"
	ReasonTenantNotResolved = "tenant_not_resolved"
	ReasonNoMatches         = "no_matches"
)

// Options tune the cascade. Zero values fall back to the defaults below.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	TierTimeout  time.Duration
	// KeywordConfidence is the top keyword score at or above which the
	// vector tier is skipped entirely.
	KeywordConfidence float64
}

func (o *Options) applyDefaults() {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 10
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = 50
	}
	if o.TierTimeout <= 0 {
		o.TierTimeout = 2 * time.Second
	}
	if o.KeywordConfidence <= 0 {
		o.KeywordConfidence = 0.5
	}
}

// Request is one search invocation.
type Request struct {
	Query  string
	Domain string
	Limit  int
	Budget float64
}

// Response carries the ranked results and the reason the pipeline stopped
// where it did.
type Response struct {
	Results []ranking.Result
	Reason  string
}

// Orchestrator runs the retrieval cascade.
type Orchestrator struct {
	resolver Resolver
	catalog  Catalog
	embedder QueryEmbedder
	cache    ResultCache
	scorer   Scorer
	logger   *zap.Logger
	opts     Options

	group singleflight.Group
}

// New creates a search orchestrator.
func New(
	resolver Resolver, catalog Catalog, embedder QueryEmbedder,
	cache ResultCache, scorer Scorer, logger *zap.Logger, opts Options,
) *Orchestrator {
	opts.applyDefaults()
	return &Orchestrator{
		resolver: resolver,
		catalog:  catalog,
		embedder: embedder,
		cache:    cache,
		scorer:   scorer,
		logger:   logger,
		opts:     opts,
	}
}

type outcome struct {
	results []ranking.Result
	reason  string
}

// Search runs the full cascade for one request. Identical concurrent
// requests (same domain, same normalized query) are collapsed into a single
// backend pipeline; each caller still gets its own limit applied.
func (s *Orchestrator) Search(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	limit := s.clampLimit(req.Limit)

	query := normalizeQuery(req.Query)
	if query == "" {
		return s.finish(start, outcome{results: []ranking.Result{}, reason: ReasonEmptyQuery}, limit), nil
	}
	domainName := tenant.Canonicalize(req.Domain)

	if cached, ok := s.cache.Get(ctx, domainName, query); ok {
		return s.finish(start, outcome{results: cached, reason: ReasonCacheHit}, limit), nil
	}

	key := domainName + "\x00" + query
	v, _, shared := s.group.Do(key, func() (any, error) {
		return s.runPipeline(ctx, domainName, query, req.Budget), nil
	})
	out := v.(outcome)
	if shared {
		s.logger.Debug("Search collapsed into in-flight pipeline",
			zap.String("domain", domainName), zap.String("query", query))
	}
	return s.finish(start, out, limit), nil
}

// runPipeline is the uncached, uncollapsed cascade. It always retrieves at
// MaxLimit so the cached result set can serve any later limit.
func (s *Orchestrator) runPipeline(ctx context.Context, domainName, query string, budget float64) outcome {
	t, err := s.resolver.Resolve(ctx, domainName)
	if err != nil {
		s.logger.Info("Search for unresolvable domain",
			zap.String("domain", domainName), zap.String("query", query))
		return outcome{results: []ranking.Result{}, reason: ReasonTenantNotResolved}
	}

	kw := s.runKeywordTier(ctx, t.ID, query)

	var vec tier.Result
	if top, confident := s.keywordConfident(kw); confident {
		vec = tier.Empty()
		metrics.TierRequestsTotal.WithLabelValues(string(tier.Vector), "skipped").Inc()
		s.logger.Debug("Vector tier skipped on confident keyword match",
			zap.String("domain", domainName), zap.Float64("top_keyword_score", top))
	} else {
		vec = s.runVectorTier(ctx, t.ID, query)
	}

	fb := tier.Empty()
	if !kw.IsHit() && !vec.IsHit() {
		fb = s.runTier(ctx, tier.Fallback, func(tctx context.Context) ([]candidate.Candidate, error) {
			return s.catalog.SearchFallback(tctx, t.ID, query, s.opts.MaxLimit)
		})
	}

	cands := mergeCandidates(kw.Candidates(), vec.Candidates(), fb.Candidates())
	if len(cands) == 0 {
		return outcome{results: []ranking.Result{}, reason: ReasonNoMatches}
	}

	ranked := s.scorer.Rank(cands, ranking.Context{Budget: budget})
	if err := s.cache.Put(ctx, domainName, query, ranked); err != nil {
		// Cache persistence is best-effort; the ranked results still stand.
		s.logger.Warn("Result cache write failed",
			zap.String("domain", domainName), zap.String("query", query), zap.Error(err))
	}
	return outcome{results: ranked, reason: ReasonOK}
}

func (s *Orchestrator) runKeywordTier(ctx context.Context, tenantID uuid.UUID, query string) tier.Result {
	if !s.catalog.SupportsKeywordSearch(ctx) {
		metrics.TierRequestsTotal.WithLabelValues(string(tier.Keyword), "skipped").Inc()
		s.logger.Debug("Keyword tier skipped, backend has no text search")
		return tier.Empty()
	}
	return s.runTier(ctx, tier.Keyword, func(tctx context.Context) ([]candidate.Candidate, error) {
		return s.catalog.SearchKeyword(tctx, tenantID, query, s.opts.MaxLimit)
	})
}

// runVectorTier embeds the query fresh and runs KNN. An embedding failure
// fails the tier only; the cascade continues to fallback.
func (s *Orchestrator) runVectorTier(ctx context.Context, tenantID uuid.UUID, query string) tier.Result {
	return s.runTier(ctx, tier.Vector, func(tctx context.Context) ([]candidate.Candidate, error) {
		vec, err := s.embedder.Embed(tctx, query)
		if err != nil {
			return nil, fmt.Errorf("vectorize query: %w", err)
		}
		return s.catalog.SearchVector(tctx, tenantID, vec, s.opts.MaxLimit)
	})
}

// runTier executes one tier under its own timeout and maps the outcome to
// a tagged tier result.
func (s *Orchestrator) runTier(
	ctx context.Context, t tier.Tier, fn func(context.Context) ([]candidate.Candidate, error),
) tier.Result {
	tctx, cancel := context.WithTimeout(ctx, s.opts.TierTimeout)
	defer cancel()

	cands, err := fn(tctx)
	if err != nil {
		metrics.TierRequestsTotal.WithLabelValues(string(t), "failed").Inc()
		s.logger.Warn("Search tier failed",
			zap.String("tier", string(t)), zap.Error(err))
		return tier.Failed(domain.NewTierError(string(t), err))
	}

	res := tier.Hit(cands)
	metrics.TierRequestsTotal.WithLabelValues(string(t), statusLabel(res.Status())).Inc()
	return res
}

// keywordConfident reports whether the keyword tier matched strongly enough
// to make the vector tier redundant.
func (s *Orchestrator) keywordConfident(kw tier.Result) (float64, bool) {
	if !kw.IsHit() {
		return 0, false
	}
	top := 0.0
	for _, c := range kw.Candidates() {
		if c.KeywordScore > top {
			top = c.KeywordScore
		}
	}
	return top, top >= s.opts.KeywordConfidence
}

func (s *Orchestrator) clampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return limit
}

func (s *Orchestrator) finish(start time.Time, out outcome, limit int) Response {
	metrics.SearchRequestsTotal.WithLabelValues(out.reason).Inc()
	metrics.SearchRequestDuration.WithLabelValues(out.reason).Observe(time.Since(start).Seconds())

	results := out.results
	if len(results) > limit {
		results = results[:limit]
	}
	return Response{Results: results, Reason: out.reason}
}

// mergeCandidates deduplicates tier outputs by ID. A document seen in more
// than one tier keeps its best semantic and best keyword score.
func mergeCandidates(groups ...[]candidate.Candidate) []candidate.Candidate {
	var merged []candidate.Candidate
	index := make(map[string]int)

	for _, group := range groups {
		for _, c := range group {
			i, seen := index[c.ID]
			if !seen {
				index[c.ID] = len(merged)
				merged = append(merged, c)
				continue
			}
			if c.SemanticScore > merged[i].SemanticScore {
				merged[i].SemanticScore = c.SemanticScore
			}
			if c.KeywordScore > merged[i].KeywordScore {
				merged[i].KeywordScore = c.KeywordScore
			}
		}
	}
	return merged
}

// normalizeQuery lowercases and collapses whitespace. This mirrors the
// result cache's key normalization so cache keys and collapse keys agree.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func statusLabel(st tier.Status) string {
	switch st {
	case tier.StatusHit:
		return "hit"
	case tier.StatusFailed:
		return "failed"
	default:
		return "empty"
	}
}

type embedderAdapter struct {
	inner domain.Embedder
}

// AdaptEmbedder exposes a domain embedder as a query embedder.
func AdaptEmbedder(e domain.Embedder) QueryEmbedder {
	return embedderAdapter{inner: e}
}

func (a embedderAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := a.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.Embedding, nil
}
