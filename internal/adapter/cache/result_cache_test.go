package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"madrasa/internal/domain"
)

func fused(text string, score float64) []domain.FusedChunk {
	return []domain.FusedChunk{
		{Chunk: domain.Chunk{Text: text, Subject: "physics", Source: "book.pdf"}, Score: score},
	}
}

func TestCacheMissThenHit(t *testing.T) {
	c := NewResultCache(10, time.Minute, nil)

	if _, hit := c.Get("physics", "ohm law", 5); hit {
		t.Fatal("expected miss on empty cache")
	}

	want := fused("voltage equals current times resistance", 0.9)
	c.Put("physics", "ohm law", 5, want)

	got, hit := c.Get("physics", "ohm law", 5)
	if !hit {
		t.Fatal("expected hit after put")
	}
	if len(got) != 1 || got[0].Chunk.Text != want[0].Chunk.Text {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCacheSubjectIsolation(t *testing.T) {
	c := NewResultCache(10, time.Minute, nil)
	c.Put("physics", "energy", 5, fused("kinetic energy", 0.8))

	if _, hit := c.Get("biology", "energy", 5); hit {
		t.Error("same query under a different subject must miss")
	}
	if _, hit := c.Get("physics", "energy", 5); !hit {
		t.Error("original subject must still hit")
	}
}

func TestCacheKIsolation(t *testing.T) {
	c := NewResultCache(10, time.Minute, nil)
	c.Put("physics", "energy", 5, fused("kinetic energy", 0.8))

	if _, hit := c.Get("physics", "energy", 10); hit {
		t.Error("same query with a different k must miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := NewResultCache(3, time.Minute, nil)
	for i := 0; i < 3; i++ {
		c.Put("physics", fmt.Sprintf("query %d", i), 5, fused("text", 0.5))
	}
	if c.Size() != 3 {
		t.Fatalf("size = %d, want 3", c.Size())
	}

	// Touch query 0 so query 1 becomes the eviction candidate.
	if _, hit := c.Get("physics", "query 0", 5); !hit {
		t.Fatal("query 0 should hit before eviction")
	}

	c.Put("physics", "query 3", 5, fused("text", 0.5))

	if c.Size() != 3 {
		t.Errorf("size = %d after eviction, want 3", c.Size())
	}
	if _, hit := c.Get("physics", "query 1", 5); hit {
		t.Error("least recently used entry should have been evicted")
	}
	if _, hit := c.Get("physics", "query 0", 5); !hit {
		t.Error("recently touched entry should survive eviction")
	}
	if _, hit := c.Get("physics", "query 3", 5); !hit {
		t.Error("newest entry should be present")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewResultCache(10, 10*time.Millisecond, nil)
	c.Put("physics", "energy", 5, fused("kinetic energy", 0.8))

	if _, hit := c.Get("physics", "energy", 5); !hit {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, hit := c.Get("physics", "energy", 5); hit {
		t.Error("expected miss after TTL expiry")
	}
	if c.Size() != 0 {
		t.Errorf("size = %d after expiry eviction, want 0", c.Size())
	}
}

func TestCacheGenerationInvalidates(t *testing.T) {
	var gen uint64
	c := NewResultCache(10, time.Minute, func() uint64 { return gen })

	c.Put("physics", "energy", 5, fused("kinetic energy", 0.8))
	if _, hit := c.Get("physics", "energy", 5); !hit {
		t.Fatal("expected hit at generation 0")
	}

	gen++

	if _, hit := c.Get("physics", "energy", 5); hit {
		t.Error("expected miss after generation bump")
	}

	// A fresh put under the new generation hits again.
	c.Put("physics", "energy", 5, fused("kinetic energy", 0.8))
	if _, hit := c.Get("physics", "energy", 5); !hit {
		t.Error("expected hit after re-put at new generation")
	}
}

func TestCacheDefaults(t *testing.T) {
	c := NewResultCache(0, 0, nil)
	if c.maxSize != 128 {
		t.Errorf("maxSize = %d, want 128", c.maxSize)
	}
	if c.ttl != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", c.ttl)
	}
}

type countingRetriever struct {
	calls   int
	results []domain.FusedChunk
	err     error
}

func (r *countingRetriever) Search(ctx context.Context, query, subject string, k int) ([]domain.FusedChunk, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.results, nil
}

func TestCachedRetrieverShortCircuits(t *testing.T) {
	inner := &countingRetriever{results: fused("voltage equals current times resistance", 0.9)}
	r := NewCachedRetriever(inner, NewResultCache(10, time.Minute, nil))

	for i := 0; i < 3; i++ {
		got, err := r.Search(context.Background(), "ohm law", "physics", 5)
		if err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
		if len(got) != 1 {
			t.Fatalf("search %d returned %d results, want 1", i, len(got))
		}
	}

	if inner.calls != 1 {
		t.Errorf("inner retriever called %d times, want 1", inner.calls)
	}
}

func TestCachedRetrieverDoesNotCacheErrors(t *testing.T) {
	inner := &countingRetriever{err: errors.New("index offline")}
	r := NewCachedRetriever(inner, NewResultCache(10, time.Minute, nil))

	for i := 0; i < 2; i++ {
		if _, err := r.Search(context.Background(), "ohm law", "physics", 5); err == nil {
			t.Fatalf("search %d: expected error", i)
		}
	}

	if inner.calls != 2 {
		t.Errorf("inner retriever called %d times, want 2 (errors must not be cached)", inner.calls)
	}
}
