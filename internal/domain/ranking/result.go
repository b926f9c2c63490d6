package ranking

import (
	"time"

	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
)

// Context carries the per-request inputs to signal computation.
type Context struct {
	// Budget is the caller's price ceiling; 0 means no budget given.
	Budget float64
	// Now anchors recency computation. Zero means time.Now at rank time.
	Now time.Time
}

// Result is a ranked candidate with its final score and a human-readable
// relevance explanation.
type Result struct {
	Candidate   candidate.Candidate `json:"candidate"`
	Score       float64             `json:"score"`
	Explanation string              `json:"explanation"`
	Signals     Signals             `json:"signals"`
}
