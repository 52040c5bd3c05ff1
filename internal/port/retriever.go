package port

import (
	"context"

	"madrasa/internal/domain"
)

// Retriever searches one subject partition and returns top-k scored
// chunks. Implemented by the lexical index and the semantic index.
type Retriever interface {
	Search(ctx context.Context, query, subject string, k int) ([]domain.ScoredChunk, error)
}

// LexicalIndex is a Retriever whose partitions are rebuilt wholesale
// from chunk slices. Build publishes atomically: a concurrent Search
// sees the old index or the new one, never a partial build.
type LexicalIndex interface {
	Retriever

	Build(subject string, chunks []domain.Chunk)

	Drop(subject string)

	// Generation increments on every Build or Drop. Caches key on it.
	Generation() uint64
}

// FusedRetriever produces the final hybrid ranking.
type FusedRetriever interface {
	Search(ctx context.Context, query, subject string, k int) ([]domain.FusedChunk, error)
}
