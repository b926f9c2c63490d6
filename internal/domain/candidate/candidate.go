// Package candidate defines the retrievable unit shared by every tier and the ranker.
package candidate

import "time"

// StockStatus mirrors the catalog's stock field values.
type StockStatus string

const (
	// StockIn means the item is available immediately.
	StockIn StockStatus = "instock"
	// StockBackorder means the item ships after restocking.
	StockBackorder StockStatus = "onbackorder"
	// StockOut means the item cannot be ordered.
	StockOut StockStatus = "outofstock"
	// StockUnknown means the catalog carries no stock information.
	StockUnknown StockStatus = ""
)

// Candidate is a single retrievable unit (product or content chunk)
// produced by a retrieval tier and consumed by the ranker.
type Candidate struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// SemanticScore is the cosine similarity from the vector tier, 0 when
	// the tier did not produce this candidate. KeywordScore likewise for
	// the keyword tier (normalized BM25).
	SemanticScore float64 `json:"semantic_score"`
	KeywordScore  float64 `json:"keyword_score"`

	StockStatus StockStatus `json:"stock_status"`
	Price       float64     `json:"price"` // 0 = unavailable
	TotalSales  int64       `json:"total_sales"`

	CreatedAt  time.Time `json:"created_at,omitzero"`
	ModifiedAt time.Time `json:"modified_at,omitzero"`
}

// LastTouched returns the modification timestamp, preferring ModifiedAt
// over CreatedAt. Zero when neither is known.
func (c *Candidate) LastTouched() time.Time {
	if !c.ModifiedAt.IsZero() {
		return c.ModifiedAt
	}
	return c.CreatedAt
}
