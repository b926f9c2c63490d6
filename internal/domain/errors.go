package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantNotFound signals that the resolution cascade exhausted every
	// stage without matching a tenant. Non-fatal: the caller yields empty results.
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrTierUnavailable signals that a single retrieval tier failed.
	// Non-fatal: the cascade continues with the next tier.
	ErrTierUnavailable = errors.New("retrieval tier unavailable")
	// ErrCacheUnavailable signals a cache persistence failure.
	// Non-fatal: the engine degrades to recomputing on every request.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrKeywordSearchNotSupported signals that the backend lacks keyword search.
	ErrKeywordSearchNotSupported = errors.New("keyword search not supported by backend")
)

// TierError wraps ErrTierUnavailable with the tier name for stage-level diagnostics.
type TierError struct {
	Tier string
	Err  error
}

func (e *TierError) Error() string {
	return fmt.Sprintf("%s tier: %v", e.Tier, e.Err)
}

func (e *TierError) Unwrap() error { return ErrTierUnavailable }

// NewTierError creates a tier failure error.
func NewTierError(tier string, err error) error {
	return &TierError{Tier: tier, Err: err}
}
