package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
)

type fakeStore struct {
	mu      sync.Mutex
	recs    []Record
	nextID  uint64
	failAll bool
	failSav bool
}

func (s *fakeStore) All(ctx context.Context) ([]Record, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, errors.New("store down")
	}
	return append([]Record(nil), s.recs...), nil
}

func (s *fakeStore) Save(ctx context.Context, r *Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSav {
		return errors.New("store down")
	}
	s.nextID++
	r.ID = s.nextID
	s.recs = append(s.recs, *r)
	return nil
}

func TestCosine(t *testing.T) {
	a := []float32{1, 2, 3}

	if got := Cosine(a, a); math.Abs(got-1) > 1e-6 {
		t.Fatalf("self similarity = %v, want ~1", got)
	}
	if got := Cosine(a, []float32{1, 2}); got != 0 {
		t.Fatalf("mismatched lengths = %v, want 0", got)
	}
	if got := Cosine(nil, nil); got != 0 {
		t.Fatalf("empty vectors = %v, want 0", got)
	}
	if got := Cosine([]float32{0, 0, 0}, a); math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("zero vector = %v, want finite", got)
	}
	if got := Cosine([]float32{1, 0}, []float32{-1, 0}); math.Abs(got+1) > 1e-6 {
		t.Fatalf("opposite vectors = %v, want ~-1", got)
	}
}

func TestSearchReturnsTopKSorted(t *testing.T) {
	store := &fakeStore{}
	idx := New(store)

	query := []float32{1, 0}
	vectors := [][]float32{
		{0, 1},        // orthogonal
		{1, 0},        // identical
		{1, 1},        // in between
		{-1, 0},       // opposite
		{0.9, 0.1},    // close
		{0.5, 0.866},  // 60 degrees
		{0.1, 0.995},  // nearly orthogonal
	}
	for i, v := range vectors {
		if _, err := idx.Add(context.Background(), fmt.Sprintf("chunk-%d", i), v, "test"); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	results := idx.Search(context.Background(), query, 3)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("results not sorted: %v before %v", results[i-1].Score, results[i].Score)
		}
	}
	if results[0].Text != "chunk-1" {
		t.Fatalf("best match = %q, want chunk-1", results[0].Text)
	}
}

func TestSearchDefaultsTopK(t *testing.T) {
	store := &fakeStore{}
	idx := New(store)
	for i := 0; i < 10; i++ {
		if _, err := idx.Add(context.Background(), fmt.Sprintf("c%d", i), []float32{float32(i), 1}, "test"); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	results := idx.Search(context.Background(), []float32{1, 1}, 0)
	if len(results) != DefaultTopK {
		t.Fatalf("got %d results, want %d", len(results), DefaultTopK)
	}
}

func TestSearchReloadsEmptyCache(t *testing.T) {
	store := &fakeStore{}
	store.recs = []Record{
		{ID: 1, Text: "persisted", Vector: []float32{1, 0}},
	}
	idx := New(store)

	// never loaded; first search must pull from the store
	results := idx.Search(context.Background(), []float32{1, 0}, 1)
	if len(results) != 1 || results[0].Text != "persisted" {
		t.Fatalf("expected reload to surface persisted record, got %+v", results)
	}
}

func TestSearchSurvivesStoreOutage(t *testing.T) {
	store := &fakeStore{failAll: true}
	idx := New(store)

	results := idx.Search(context.Background(), []float32{1, 0}, 5)
	if len(results) != 0 {
		t.Fatalf("expected no results against a down store, got %d", len(results))
	}
}

func TestAddFailureLeavesCacheUnchanged(t *testing.T) {
	store := &fakeStore{}
	idx := New(store)
	if _, err := idx.Add(context.Background(), "keep", []float32{1, 0}, "test"); err != nil {
		t.Fatalf("add: %v", err)
	}

	store.mu.Lock()
	store.failSav = true
	store.mu.Unlock()

	if _, err := idx.Add(context.Background(), "phantom", []float32{0, 1}, "test"); err == nil {
		t.Fatalf("expected add to fail")
	}

	results := idx.Search(context.Background(), []float32{0, 1}, 10)
	if len(results) != 1 || results[0].Text != "keep" {
		t.Fatalf("cache changed after failed add: %+v", results)
	}
}

func TestConcurrentAddsLoseNothing(t *testing.T) {
	store := &fakeStore{}
	idx := New(store)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if _, err := idx.Add(context.Background(), fmt.Sprintf("c%d", i), []float32{float32(i), 1}, "test"); err != nil {
				t.Errorf("add %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	results := idx.Search(context.Background(), []float32{1, 1}, n)
	if len(results) != n {
		t.Fatalf("got %d records after concurrent adds, want %d", len(results), n)
	}
}

func TestCombine(t *testing.T) {
	got := Combine([]SearchResult{
		{Text: "first"},
		{Text: "second"},
	})
	if got != "first\nsecond" {
		t.Fatalf("combine = %q", got)
	}
	if got := Combine(nil); got != "" {
		t.Fatalf("combine empty = %q, want empty string", got)
	}
}
