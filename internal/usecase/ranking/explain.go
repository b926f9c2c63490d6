package ranking

import (
	"strings"
	"time"

	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
	domranking "github.com/kailas-cloud/storesearch/internal/domain/ranking"
)

// defaultExplanation is used when no fragment qualifies.
const defaultExplanation = "Relevant result"

// explain builds the human-readable relevance explanation: at most one
// fragment per category, concatenated in fixed evaluation order
// (semantic, keyword, stock, price, popularity, recency). Deterministic by
// construction so cached and recomputed results read identically.
func explain(c *candidate.Candidate, s domranking.Signals, rc domranking.Context) string {
	var frags []string

	switch {
	case s.Semantic >= 0.9:
		frags = append(frags, "Excellent semantic match")
	case s.Semantic >= 0.75:
		frags = append(frags, "Strong semantic match")
	case s.Semantic >= 0.5:
		frags = append(frags, "Good semantic match")
	}

	switch {
	case s.Keyword >= 0.75:
		frags = append(frags, "Strong keyword match")
	case s.Keyword >= 0.4:
		frags = append(frags, "Matches your search terms")
	}

	switch c.StockStatus {
	case candidate.StockIn:
		frags = append(frags, "In stock")
	case candidate.StockBackorder:
		frags = append(frags, "Available on backorder")
	case candidate.StockOut:
		frags = append(frags, "Currently out of stock")
	}

	if rc.Budget > 0 && c.Price > 0 {
		if c.Price <= rc.Budget {
			frags = append(frags, "Within your budget")
		} else if s.Price > 0 {
			frags = append(frags, "Slightly over budget")
		}
	}

	switch {
	case c.TotalSales >= popularitySalesCap:
		frags = append(frags, "Top seller")
	case s.Popularity >= 0.6:
		frags = append(frags, "Popular choice")
	}

	if t := c.LastTouched(); !t.IsZero() && rc.Now.Sub(t) < 30*24*time.Hour {
		frags = append(frags, "Recently updated")
	}

	if len(frags) == 0 {
		return defaultExplanation
	}
	return strings.Join(frags, "; ")
}
