// Package ranking turns raw retrieval candidates into the final ordered
// result list: per-candidate signal vectors, a weighted blend, deterministic
// ordering, and a relevance explanation per result.
package ranking

import (
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
	domranking "github.com/kailas-cloud/storesearch/internal/domain/ranking"
)

// Ranker scores and orders candidates under a fixed weighting policy.
// Pure and stateless; safe for concurrent use.
type Ranker struct {
	weights domranking.Weights
}

// New creates a ranker with explicit weights (testing/tuning).
func New(weights domranking.Weights) (*Ranker, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("ranking weights: %w", err)
	}
	return &Ranker{weights: weights}, nil
}

// NewDefault creates a ranker with the production weighting policy.
func NewDefault() *Ranker {
	return &Ranker{weights: domranking.DefaultWeights()}
}

// Rank computes signals and final scores for all candidates and returns them
// ordered: descending by score, ties broken by candidate ID ascending.
// The ordering is a total order, so reordering the input never changes the output.
func (r *Ranker) Rank(cands []candidate.Candidate, rc domranking.Context) []domranking.Result {
	if rc.Now.IsZero() {
		rc.Now = time.Now()
	}

	results := make([]domranking.Result, 0, len(cands))
	for i := range cands {
		s := computeSignals(&cands[i], rc)
		results = append(results, domranking.Result{
			Candidate:   cands[i],
			Score:       r.weights.Blend(s),
			Explanation: explain(&cands[i], s, rc),
			Signals:     s,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Candidate.ID < results[j].Candidate.ID
	})

	return results
}
