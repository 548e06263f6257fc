package index

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

const DefaultTopK = 5

// Index keeps every stored (text, vector) pair in memory and answers top-k
// cosine-similarity queries. The durable store is the system of record; the
// in-memory side is a cache kept consistent with it.
//
// The cache is a copy-on-write snapshot: searches read the current snapshot
// without locking, writers copy-append under a mutex and swap the pointer.
// A search never observes a partially appended record.
type Index struct {
	store RecordStore

	mu   sync.Mutex // serializes Add and Load
	snap atomic.Pointer[[]Record]
}

func New(store RecordStore) *Index {
	return &Index{store: store}
}

// Load clears the cache and repopulates it from the durable store. On store
// failure the cache is left empty and the error returned; searches against
// the empty cache will retry the load.
func (x *Index) Load(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	recs, err := x.store.All(ctx)
	if err != nil {
		empty := []Record{}
		x.snap.Store(&empty)
		return err
	}
	x.snap.Store(&recs)
	log.Printf("index: loaded %d embeddings into memory", len(recs))
	return nil
}

// Add persists the record first and appends it to the cache only on success,
// so a store failure never leaves a phantom cache entry.
func (x *Index) Add(ctx context.Context, text string, vector []float32, source string) (*Record, error) {
	rec := Record{Text: text, Vector: vector, Source: source}
	if err := x.store.Save(ctx, &rec); err != nil {
		return nil, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	old := x.snap.Load()
	var next []Record
	if old != nil {
		next = make([]Record, len(*old), len(*old)+1)
		copy(next, *old)
	}
	next = append(next, rec)
	x.snap.Store(&next)
	return &rec, nil
}

// Search returns the k highest-scoring records for the query vector, sorted
// by descending score with ties kept in insertion order. An empty cache
// triggers a reload; a failing reload yields no results rather than an error.
func (x *Index) Search(ctx context.Context, query []float32, k int) []SearchResult {
	if k <= 0 {
		k = DefaultTopK
	}

	snap := x.snap.Load()
	if snap == nil || len(*snap) == 0 {
		if err := x.Load(ctx); err != nil {
			log.Printf("index: reload failed, searching empty cache: %v", err)
		}
		snap = x.snap.Load()
	}

	recs := *snap
	results := make([]SearchResult, 0, len(recs))
	for _, r := range recs {
		results = append(results, SearchResult{
			Text:  r.Text,
			Score: Cosine(query, r.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Cosine computes cosine similarity of two vectors. Mismatched or empty
// vectors score 0; the denominator carries a small epsilon so a zero vector
// does not divide by zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + 1e-10)
}

// Combine joins retrieved chunk texts into a single context block.
func Combine(results []SearchResult) string {
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(r.Text)
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String())
}
