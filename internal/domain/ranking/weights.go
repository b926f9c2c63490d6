// Package ranking defines the scoring types shared by the ranker and orchestrator.
package ranking

import "fmt"

// weightSumTolerance absorbs float drift when validating that weights sum to 1.
const weightSumTolerance = 1e-9

// Weights is the fixed blend applied to the six ranking signals.
// Must be non-negative and sum to 1.0 so final scores stay in [0,1].
type Weights struct {
	Semantic   float64
	Keyword    float64
	Stock      float64
	Price      float64
	Popularity float64
	Recency    float64
}

// DefaultWeights returns the production weighting policy.
func DefaultWeights() Weights {
	return Weights{
		Semantic:   0.40,
		Keyword:    0.25,
		Stock:      0.20,
		Price:      0.10,
		Popularity: 0.03,
		Recency:    0.02,
	}
}

// Validate checks non-negativity and that the weights sum to 1.0.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"semantic": w.Semantic, "keyword": w.Keyword, "stock": w.Stock,
		"price": w.Price, "popularity": w.Popularity, "recency": w.Recency,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}
	sum := w.Semantic + w.Keyword + w.Stock + w.Price + w.Popularity + w.Recency
	if diff := sum - 1.0; diff > weightSumTolerance || diff < -weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// Signals is a per-candidate vector of six independent sub-scores, each in [0,1].
type Signals struct {
	Semantic   float64 `json:"semantic"`
	Keyword    float64 `json:"keyword"`
	Stock      float64 `json:"stock"`
	Price      float64 `json:"price"`
	Popularity float64 `json:"popularity"`
	Recency    float64 `json:"recency"`
}

// Blend combines the signals into a final score using w.
// With valid weights and signals in [0,1] the result stays in [0,1].
func (w Weights) Blend(s Signals) float64 {
	return w.Semantic*s.Semantic +
		w.Keyword*s.Keyword +
		w.Stock*s.Stock +
		w.Price*s.Price +
		w.Popularity*s.Popularity +
		w.Recency*s.Recency
}
