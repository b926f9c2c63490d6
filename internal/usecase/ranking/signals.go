package ranking

import (
	"math"
	"time"

	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
	domranking "github.com/kailas-cloud/storesearch/internal/domain/ranking"
)

// Scoring policy constants. The thresholds are tunable policy choices kept
// for behavioral compatibility with the production weighting, not intrinsic
// to the algorithm.
const (
	// priceDecayCeiling is the multiple of the budget at which price fit
	// reaches zero.
	priceDecayCeiling = 2.0
	// popularitySalesCap is the unit-sales count treated as maximal popularity.
	popularitySalesCap = 1000
	// popularityFloor keeps unpopular-but-relevant items from being
	// fully suppressed.
	popularityFloor = 0.1
)

// computeSignals derives the six independent sub-scores for one candidate.
// Each is pure and clamped to [0,1].
func computeSignals(c *candidate.Candidate, rc domranking.Context) domranking.Signals {
	return domranking.Signals{
		Semantic:   clamp01(c.SemanticScore),
		Keyword:    clamp01(c.KeywordScore),
		Stock:      stockAvailability(c.StockStatus),
		Price:      priceFit(c.Price, rc.Budget),
		Popularity: popularity(c.TotalSales),
		Recency:    recency(c.LastTouched(), rc.Now),
	}
}

// stockAvailability scores immediate availability.
func stockAvailability(s candidate.StockStatus) float64 {
	switch s {
	case candidate.StockIn:
		return 1.0
	case candidate.StockOut:
		return 0.0
	default:
		// backorder and unknown both count as "maybe"
		return 0.5
	}
}

// priceFit scores how well the price matches the caller's budget: full score
// at or under budget, linear decay to zero at priceDecayCeiling× the budget.
// No budget means every price fits; an unavailable price scores the baseline.
func priceFit(price, budget float64) float64 {
	if budget <= 0 {
		return 1.0
	}
	if price <= 0 {
		return 0.5
	}
	if price <= budget {
		return 1.0
	}
	fit := 1.0 - (price-budget)/(budget*(priceDecayCeiling-1.0))
	return max(0, fit)
}

// popularity scales unit sales logarithmically: log10(sales+1) normalized so
// the cap lands at 1.0, floored at popularityFloor.
func popularity(totalSales int64) float64 {
	if totalSales <= 0 {
		return popularityFloor
	}
	if totalSales >= popularitySalesCap {
		return 1.0
	}
	v := math.Log10(float64(totalSales)+1) / math.Log10(popularitySalesCap+1)
	return min(1.0, max(popularityFloor, v))
}

// recency is a step function on age since the candidate was last touched.
func recency(touched, now time.Time) float64 {
	if touched.IsZero() {
		return 0.5
	}
	age := now.Sub(touched)
	switch {
	case age < 30*24*time.Hour:
		return 1.0
	case age < 90*24*time.Hour:
		return 0.8
	case age < 180*24*time.Hour:
		return 0.6
	case age < 365*24*time.Hour:
		return 0.4
	default:
		return 0.2
	}
}

func clamp01(v float64) float64 {
	return min(1.0, max(0.0, v))
}
