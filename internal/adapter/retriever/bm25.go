// Package retriever implements lexical, semantic and hybrid retrieval
// over indexed chunks.
package retriever

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

const (
	defaultK1 = 1.5
	defaultB  = 0.75
)

// posting records how often a term occurs in one document.
type posting struct {
	doc int
	tf  int
}

// bm25Index is an inverted index over one subject's chunks. An index is
// built in full and never mutated afterwards, so searches read it
// without locking.
type bm25Index struct {
	chunks    []domain.Chunk
	docLens   []float64
	avgDocLen float64
	postings  map[string][]posting
	k1        float64
	b         float64
}

func buildIndex(chunks []domain.Chunk, tok port.Tokenizer, k1, b float64) *bm25Index {
	idx := &bm25Index{
		chunks:   chunks,
		docLens:  make([]float64, len(chunks)),
		postings: make(map[string][]posting),
		k1:       k1,
		b:        b,
	}

	var total float64
	for i, chunk := range chunks {
		tokens := tok.Tokenize(chunk.Text)
		idx.docLens[i] = float64(len(tokens))
		total += float64(len(tokens))

		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for term, n := range tf {
			idx.postings[term] = append(idx.postings[term], posting{doc: i, tf: n})
		}
	}
	if len(chunks) > 0 {
		idx.avgDocLen = total / float64(len(chunks))
	}
	return idx
}

// search scores every document containing a query term and returns the
// top k with strictly positive scores, best first. Equal scores keep
// corpus order.
func (idx *bm25Index) search(queryTokens []string, k int) []domain.ScoredChunk {
	if len(idx.chunks) == 0 || len(queryTokens) == 0 || k <= 0 {
		return nil
	}

	n := float64(len(idx.chunks))
	scores := make([]float64, len(idx.chunks))
	for _, term := range queryTokens {
		plist := idx.postings[term]
		if len(plist) == 0 {
			continue
		}
		df := float64(len(plist))
		idf := math.Log((n-df+0.5)/(df+0.5) + 1)
		for _, p := range plist {
			tf := float64(p.tf)
			norm := 1 - idx.b + idx.b*idx.docLens[p.doc]/idx.avgDocLen
			scores[p.doc] += idf * (tf * (idx.k1 + 1)) / (tf + idx.k1*norm)
		}
	}

	ranked := make([]domain.ScoredChunk, 0, k)
	for i, score := range scores {
		if score <= 0 {
			continue
		}
		ranked = append(ranked, domain.ScoredChunk{Chunk: idx.chunks[i], Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// BM25 holds one lexical index per subject. Build constructs the new
// index aside and swaps it in under the lock, so concurrent searches
// always see either the old snapshot or the new one, never a partial
// state.
type BM25 struct {
	tokenizer port.Tokenizer
	k1        float64
	b         float64

	mu      sync.RWMutex
	indices map[string]*bm25Index
	gen     atomic.Uint64
}

var _ port.LexicalIndex = (*BM25)(nil)

func NewBM25(tokenizer port.Tokenizer, k1, b float64) *BM25 {
	if k1 <= 0 {
		k1 = defaultK1
	}
	if b < 0 {
		b = defaultB
	}
	return &BM25{
		tokenizer: tokenizer,
		k1:        k1,
		b:         b,
		indices:   make(map[string]*bm25Index),
	}
}

// Build indexes a subject's chunks, replacing any previous index for
// that subject.
func (r *BM25) Build(subject string, chunks []domain.Chunk) {
	idx := buildIndex(chunks, r.tokenizer, r.k1, r.b)

	r.mu.Lock()
	r.indices[subject] = idx
	r.mu.Unlock()
	r.gen.Add(1)
}

// Drop removes a subject's index.
func (r *BM25) Drop(subject string) {
	r.mu.Lock()
	delete(r.indices, subject)
	r.mu.Unlock()
	r.gen.Add(1)
}

// Generation increments on every Build and Drop. Results cached under
// an older generation are stale.
func (r *BM25) Generation() uint64 {
	return r.gen.Load()
}

// Subjects returns the subjects that currently have an index, sorted.
func (r *BM25) Subjects() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subjects := make([]string, 0, len(r.indices))
	for s := range r.indices {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}

// Search retrieves the top k chunks for the query within one subject.
// A subject without an index yields no results rather than an error.
func (r *BM25) Search(ctx context.Context, query, subject string, k int) ([]domain.ScoredChunk, error) {
	r.mu.RLock()
	idx := r.indices[subject]
	r.mu.RUnlock()
	if idx == nil {
		return nil, nil
	}
	return idx.search(r.tokenizer.Tokenize(query), k), nil
}
