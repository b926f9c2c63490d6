// Package tier defines the retrieval tier identifiers and the tagged
// per-tier outcome used by the cascade.
package tier

import "github.com/kailas-cloud/storesearch/internal/domain/candidate"

// Tier names one retrieval strategy in the cascade.
type Tier string

const (
	// Keyword is the lexical BM25 tier, attempted first (cheapest).
	Keyword Tier = "keyword"
	// Vector is the semantic KNN tier.
	Vector Tier = "vector"
	// Fallback is the last-resort broad containment tier.
	Fallback Tier = "fallback"
)

// Status tags a tier outcome.
type Status int

const (
	// StatusEmpty means the tier ran and matched nothing.
	StatusEmpty Status = iota
	// StatusHit means the tier produced candidates.
	StatusHit
	// StatusFailed means the tier errored or timed out; the cascade
	// treats this as empty and continues.
	StatusFailed
)

// Result is the tagged outcome of a single tier execution. The cascade
// switches on Status exhaustively instead of inspecting nil slices.
type Result struct {
	status     Status
	candidates []candidate.Candidate
	err        error
}

// Empty creates a ran-but-matched-nothing result.
func Empty() Result {
	return Result{status: StatusEmpty}
}

// Hit creates a successful result. An empty slice degrades to Empty.
func Hit(candidates []candidate.Candidate) Result {
	if len(candidates) == 0 {
		return Empty()
	}
	return Result{status: StatusHit, candidates: candidates}
}

// Failed creates a failed result carrying the cause.
func Failed(err error) Result {
	return Result{status: StatusFailed, err: err}
}

// Status returns the outcome tag.
func (r Result) Status() Status { return r.status }

// Candidates returns the tier's candidates (nil unless StatusHit).
func (r Result) Candidates() []candidate.Candidate { return r.candidates }

// Err returns the failure cause (nil unless StatusFailed).
func (r Result) Err() error { return r.err }

// IsHit reports whether the tier produced candidates.
func (r Result) IsHit() bool { return r.status == StatusHit }
