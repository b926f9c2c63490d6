package catalog

import (
	"context"

	"github.com/kailas-cloud/storesearch/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	knnResult  *db.SearchResult
	knnErr     error
	bm25Result *db.SearchResult
	bm25Err    error
	listResult *db.SearchResult
	listErr    error
	textOK     bool

	lastKNN  *db.KNNQuery
	lastBM25 *db.TextQuery
	lastList *db.ListQuery
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastKNN = q
	if m.knnErr != nil {
		return nil, m.knnErr
	}
	if m.knnResult == nil {
		return &db.SearchResult{}, nil
	}
	return m.knnResult, nil
}

func (m *mockStore) SearchBM25(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	m.lastBM25 = q
	if m.bm25Err != nil {
		return nil, m.bm25Err
	}
	if m.bm25Result == nil {
		return &db.SearchResult{}, nil
	}
	return m.bm25Result, nil
}

func (m *mockStore) SearchList(_ context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	m.lastList = q
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.listResult == nil {
		return &db.SearchResult{}, nil
	}
	return m.listResult, nil
}

func (m *mockStore) SupportsTextSearch(_ context.Context) bool {
	return m.textOK
}
