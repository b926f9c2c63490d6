package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storesearch/internal/db"
	"github.com/kailas-cloud/storesearch/internal/domain"
	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
)

var testTenant = uuid.MustParse("3f0a1d44-83c2-49c7-9c55-0d6e9a1b8f21")

func docKey(id string) string {
	return docKeyPrefix(testTenant) + id
}

func productFields(title string) map[string]string {
	return map[string]string{
		"title":        title,
		"content":      title + " long description",
		"price":        "149.99",
		"stock_status": "instock",
		"total_sales":  "42",
		"created_at":   "1735689600", // 2025-01-01
		"modified_at":  "1750000000",
	}
}

func TestSearchKeyword_MapsCandidates(t *testing.T) {
	ms := &mockStore{
		textOK: true,
		bm25Result: &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{
				{Key: docKey("prod-7"), Score: 3.0, Fields: productFields("Hydraulic pump")},
			},
		},
	}
	r := New(ms, 0)

	cands, err := r.SearchKeyword(context.Background(), testTenant, "hydraulic pump", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}

	c := cands[0]
	if c.ID != "prod-7" {
		t.Fatalf("expected key prefix stripped, got ID %q", c.ID)
	}
	if c.KeywordScore != 0.75 { // 3/(3+1)
		t.Fatalf("expected normalized keyword score 0.75, got %v", c.KeywordScore)
	}
	if c.SemanticScore != 0 {
		t.Fatalf("keyword tier must not set a semantic score, got %v", c.SemanticScore)
	}
	if c.StockStatus != candidate.StockIn || c.Price != 149.99 || c.TotalSales != 42 {
		t.Fatalf("unexpected business fields: %+v", c)
	}
	if c.ModifiedAt.IsZero() {
		t.Fatal("expected modified_at parsed")
	}

	if ms.lastBM25.TenantTag != testTenant.String() {
		t.Fatalf("expected tenant-scoped query, got tag %q", ms.lastBM25.TenantTag)
	}
}

func TestSearchKeyword_NotSupported(t *testing.T) {
	r := New(&mockStore{textOK: false}, 0)

	_, err := r.SearchKeyword(context.Background(), testTenant, "pump", 10)
	if !errors.Is(err, domain.ErrKeywordSearchNotSupported) {
		t.Fatalf("expected ErrKeywordSearchNotSupported, got %v", err)
	}
}

func TestSearchVector_CarriesSimilarity(t *testing.T) {
	ms := &mockStore{
		knnResult: &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: docKey("a"), Score: 0.92, Fields: productFields("Pump")},
				{Key: docKey("b"), Score: 0.55, Fields: productFields("Seal kit")},
			},
		},
	}
	r := New(ms, 0)

	cands, err := r.SearchVector(context.Background(), testTenant, []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	if cands[0].SemanticScore != 0.92 || cands[1].SemanticScore != 0.55 {
		t.Fatalf("unexpected semantic scores: %+v", cands)
	}
	if cands[0].KeywordScore != 0 {
		t.Fatal("vector tier must not set a keyword score")
	}
	if ms.lastKNN.K != 5 {
		t.Fatalf("expected K=5, got %d", ms.lastKNN.K)
	}
}

func TestSearchFallback_ContainmentMatch(t *testing.T) {
	ms := &mockStore{
		listResult: &db.SearchResult{
			Total: 3,
			Entries: []db.SearchEntry{
				{Key: docKey("a"), Fields: productFields("Hydraulic PUMP unit")},
				{Key: docKey("b"), Fields: productFields("Garden hose")},
				{Key: docKey("c"), Fields: map[string]string{
					"title":   "Spare part",
					"content": "fits most pump models",
				}},
			},
		},
	}
	r := New(ms, 100)

	cands, err := r.SearchFallback(context.Background(), testTenant, "Pump", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 containment matches, got %d", len(cands))
	}
	if cands[0].ID != "a" || cands[1].ID != "c" {
		t.Fatalf("unexpected matches: %+v", cands)
	}
	if ms.lastList.Limit != 100 {
		t.Fatalf("expected fallback scan limit 100, got %d", ms.lastList.Limit)
	}
}

func TestSearchFallback_RespectsLimit(t *testing.T) {
	entries := make([]db.SearchEntry, 0, 10)
	for i := range 10 {
		entries = append(entries, db.SearchEntry{
			Key:    docKey(string(rune('a' + i))),
			Fields: productFields("pump"),
		})
	}
	r := New(&mockStore{listResult: &db.SearchResult{Total: 10, Entries: entries}}, 100)

	cands, err := r.SearchFallback(context.Background(), testTenant, "pump", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("expected limit enforced, got %d", len(cands))
	}
}

func TestSearchFallback_EmptyQuery(t *testing.T) {
	r := New(&mockStore{}, 100)

	cands, err := r.SearchFallback(context.Background(), testTenant, "   ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cands != nil {
		t.Fatalf("expected nil for blank query, got %+v", cands)
	}
}

func TestEntryToCandidate_DegradedFields(t *testing.T) {
	e := db.SearchEntry{
		Key: docKey("x"),
		Fields: map[string]string{
			"title":        "Widget",
			"price":        "not-a-number",
			"stock_status": "discontinued",
			"total_sales":  "-5",
			"created_at":   "bogus",
		},
	}

	c := entryToCandidate(e, testTenant)
	if c.Price != 0 {
		t.Fatalf("expected unparseable price to degrade to 0, got %v", c.Price)
	}
	if c.StockStatus != candidate.StockUnknown {
		t.Fatalf("expected unknown stock status, got %q", c.StockStatus)
	}
	if c.TotalSales != 0 {
		t.Fatalf("expected negative sales clamped to 0, got %d", c.TotalSales)
	}
	if !c.CreatedAt.IsZero() || !c.LastTouched().IsZero() {
		t.Fatal("expected zero timestamps for bogus fields")
	}
}

func TestParseUnix(t *testing.T) {
	got := parseUnix("1735689600")
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parseUnix = %v, want %v", got, want)
	}
}

func TestNormalizeBM25(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{-1, 0},
		{1, 0.5},
		{3, 0.75},
	}
	for _, tc := range tests {
		if got := normalizeBM25(tc.in); got != tc.want {
			t.Errorf("normalizeBM25(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
