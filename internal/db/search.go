package db

// KNNQuery is the input for vector similarity search.
// TenantTag scopes the search to a single tenant's documents.
type KNNQuery struct {
	IndexName    string
	TenantTag    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 text search.
type TextQuery struct {
	IndexName    string
	TenantTag    string
	Query        string
	TopK         int
	ReturnFields []string
}

// ListQuery is the input for a broad tenant-scoped listing (fallback matching).
type ListQuery struct {
	IndexName    string
	TenantTag    string
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
