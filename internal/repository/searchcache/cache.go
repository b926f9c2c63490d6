// Package searchcache stores full ranked result sets per (tenant domain,
// normalized query) pair with a bounded TTL, so repeat queries skip the
// whole retrieval cascade.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storesearch/internal/db"
	"github.com/kailas-cloud/storesearch/internal/domain"
	"github.com/kailas-cloud/storesearch/internal/domain/ranking"
)

var cacheKeyPrefix = domain.KeyPrefix + "res_cache:"

// store is the consumer interface for result cache operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// entry is the stored cache record. Written all-or-nothing in a single SET;
// access counters live in side keys so hits never rewrite the entry.
type entry struct {
	Results   []ranking.Result `json:"results"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Manager caches ranked search results with TTL and access tracking.
// Safe for concurrent use: every operation is a single atomic store call
// per key and entries for distinct keys are independent.
type Manager struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a result cache manager.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Manager {
	return &Manager{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the cached ranked results for (domain, query), recording the
// access. A stale or unreadable entry is treated as a miss.
func (m *Manager) Get(ctx context.Context, domainName, query string) ([]ranking.Result, bool) {
	key := m.cacheKey(domainName, query)

	data, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			m.logger.Warn("Failed to read result cache", zap.String("key", key), zap.Error(err))
		}
		m.incCache("miss")
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		m.logger.Warn("Failed to parse result cache entry", zap.String("key", key), zap.Error(err))
		m.incCache("miss")
		return nil, false
	}

	// TTL normally handles expiry; the stored deadline guards against
	// entries written with a longer TTL by an older build.
	if m.now().After(e.ExpiresAt) {
		if err := m.store.Del(ctx, key); err != nil {
			m.logger.Warn("Failed to drop stale cache entry", zap.String("key", key), zap.Error(err))
		}
		m.incCache("miss")
		return nil, false
	}

	m.touch(ctx, key)
	m.incCache("hit")
	return e.Results, true
}

// Put stores the ranked results. The write is all-or-nothing; a failure is
// returned as ErrCacheUnavailable and the caller serves the results anyway.
func (m *Manager) Put(ctx context.Context, domainName, query string, results []ranking.Result) error {
	key := m.cacheKey(domainName, query)
	now := m.now()

	data, err := json.Marshal(entry{
		Results:   results,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := m.store.SetWithTTL(ctx, key, data, m.ttl); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Invalidate removes the entry and its access counters.
func (m *Manager) Invalidate(ctx context.Context, domainName, query string) error {
	key := m.cacheKey(domainName, query)
	for _, k := range []string{key, key + ":hits", key + ":last_access"} {
		if err := m.store.Del(ctx, k); err != nil {
			return fmt.Errorf("invalidate %s: %w", k, err)
		}
	}
	return nil
}

// HitCount returns the recorded hit counter for (domain, query). 0 when absent.
func (m *Manager) HitCount(ctx context.Context, domainName, query string) (int64, error) {
	data, err := m.store.Get(ctx, m.cacheKey(domainName, query)+":hits")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("hit count: %w", err)
	}
	var n int64
	if _, err := fmt.Sscan(string(data), &n); err != nil {
		return 0, fmt.Errorf("hit count parse: %w", err)
	}
	return n, nil
}

// touch records an access in the side keys, best-effort.
func (m *Manager) touch(ctx context.Context, key string) {
	hitsKey := key + ":hits"
	if err := m.store.IncrBy(ctx, hitsKey, 1); err != nil {
		m.logger.Warn("Failed to bump cache hit counter", zap.String("key", hitsKey), zap.Error(err))
		return
	}
	if err := m.store.Expire(ctx, hitsKey, m.ttl, true); err != nil {
		m.logger.Warn("Failed to set hit counter TTL", zap.String("key", hitsKey), zap.Error(err))
	}

	ts := []byte(m.now().UTC().Format(time.RFC3339Nano))
	if err := m.store.SetWithTTL(ctx, key+":last_access", ts, m.ttl); err != nil {
		m.logger.Warn("Failed to record cache access time", zap.String("key", key), zap.Error(err))
	}
}

func (m *Manager) incCache(result string) {
	if m.cacheTotal != nil {
		m.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (m *Manager) cacheKey(domainName, query string) string {
	h := sha256.Sum256([]byte(NormalizeQuery(query)))
	return cacheKeyPrefix + domainName + ":" + hex.EncodeToString(h[:])
}

// NormalizeQuery canonicalizes free-text queries for cache keying:
// lowercased, trimmed, inner whitespace collapsed.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
