package searchcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storesearch/internal/db"
	"github.com/kailas-cloud/storesearch/internal/domain"
	"github.com/kailas-cloud/storesearch/internal/domain/candidate"
	"github.com/kailas-cloud/storesearch/internal/domain/ranking"
)

// memStore implements the consumer interface in memory, tracking TTLs and counters.
type memStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	setErr  error
	getErr  error
	incrErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

func (m *memStore) IncrBy(_ context.Context, key string, val int64) error {
	if m.incrErr != nil {
		return m.incrErr
	}
	var n int64
	if v, ok := m.data[key]; ok {
		for _, c := range v {
			n = n*10 + int64(c-'0')
		}
	}
	n += val
	buf := []byte{}
	if n == 0 {
		buf = []byte("0")
	}
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	m.data[key] = buf
	return nil
}

func (m *memStore) Expire(_ context.Context, key string, ttl time.Duration, _ bool) error {
	m.ttls[key] = ttl
	return nil
}

func sampleResults() []ranking.Result {
	return []ranking.Result{
		{
			Candidate:   candidate.Candidate{ID: "prod-1", Title: "Hydraulic pump"},
			Score:       0.91,
			Explanation: "Excellent semantic match; In stock",
		},
		{
			Candidate:   candidate.Candidate{ID: "prod-2", Title: "Pump seal kit"},
			Score:       0.74,
			Explanation: "Strong keyword match",
		},
	}
}

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *memStore) {
	t.Helper()
	ms := newMemStore()
	return New(ms, ttl, nil, zap.NewNop()), ms
}

func TestGetPut_RoundTrip(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	if _, ok := m.Get(ctx, "acme.example", "hydraulic pump"); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := m.Put(ctx, "acme.example", "hydraulic pump", sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := m.Get(ctx, "acme.example", "hydraulic pump")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 || got[0].Candidate.ID != "prod-1" || got[0].Score != 0.91 {
		t.Fatalf("unexpected cached results: %+v", got)
	}
}

func TestGet_QueryNormalization(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	if err := m.Put(ctx, "acme.example", "Hydraulic   Pump", sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := m.Get(ctx, "acme.example", "  hydraulic pump "); !ok {
		t.Fatal("expected hit for normalization-equivalent query")
	}
}

func TestGet_TenantIsolation(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	if err := m.Put(ctx, "acme.example", "pump", sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := m.Get(ctx, "other.example", "pump"); ok {
		t.Fatal("expected miss for a different tenant domain")
	}
}

func TestGet_ExpiredEntryIsMiss(t *testing.T) {
	m, ms := newTestManager(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	m.now = func() time.Time { return base }
	if err := m.Put(ctx, "acme.example", "pump", sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, ok := m.Get(ctx, "acme.example", "pump"); ok {
		t.Fatal("expected miss after expiry deadline")
	}
	if len(ms.data) != 0 {
		t.Fatalf("expected stale entry dropped, still have %d keys", len(ms.data))
	}
}

func TestGet_HitCountTracking(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	if err := m.Put(ctx, "acme.example", "pump", sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for range 3 {
		if _, ok := m.Get(ctx, "acme.example", "pump"); !ok {
			t.Fatal("expected hit")
		}
	}

	n, err := m.HitCount(ctx, "acme.example", "pump")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 hits recorded, got %d", n)
	}
}

func TestGet_AccessTrackingFailureStillHits(t *testing.T) {
	m, ms := newTestManager(t, time.Hour)
	ctx := context.Background()

	if err := m.Put(ctx, "acme.example", "pump", sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ms.incrErr = errors.New("store down")
	if _, ok := m.Get(ctx, "acme.example", "pump"); !ok {
		t.Fatal("expected hit despite counter failure")
	}
}

func TestPut_StoreFailureIsCacheUnavailable(t *testing.T) {
	m, ms := newTestManager(t, time.Hour)
	ms.setErr = errors.New("store down")

	err := m.Put(context.Background(), "acme.example", "pump", sampleResults())
	if !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Fatalf("expected ErrCacheUnavailable, got %v", err)
	}
}

func TestInvalidate_RemovesEntryAndCounters(t *testing.T) {
	m, ms := newTestManager(t, time.Hour)
	ctx := context.Background()

	if err := m.Put(ctx, "acme.example", "pump", sampleResults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.Get(ctx, "acme.example", "pump"); !ok {
		t.Fatal("expected hit")
	}

	if err := m.Invalidate(ctx, "acme.example", "pump"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms.data) != 0 {
		t.Fatalf("expected all keys removed, still have %d", len(ms.data))
	}
	if _, ok := m.Get(ctx, "acme.example", "pump"); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hydraulic Pump", "hydraulic pump"},
		{"  spaced   out\tquery ", "spaced out query"},
		{"", ""},
		{"UPPER", "upper"},
	}
	for _, tc := range tests {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
