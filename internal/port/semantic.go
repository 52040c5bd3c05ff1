package port

import (
	"context"

	"madrasa/internal/domain"
)

// SemanticIndex is the embedding-backed vector index. Documents are
// keyed by Chunk.Key, so indexing the same chunk twice overwrites.
type SemanticIndex interface {
	// Index embeds and upserts the chunks.
	Index(ctx context.Context, chunks []domain.Chunk) error

	// Search returns the k most similar chunks within one subject,
	// best first. k is clamped to the collection size.
	Search(ctx context.Context, query, subject string, k int) ([]domain.ScoredChunk, error)

	// Count returns the number of indexed chunks across all subjects.
	Count() int

	// DeleteSubject removes one subject's chunks.
	DeleteSubject(ctx context.Context, subject string) error

	// Reset drops and recreates the whole collection.
	Reset(ctx context.Context) error
}
