// Package vectorstore persists chunk embeddings in an on-disk
// chromem-go collection and serves similarity search over them.
package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

const collectionName = "textbooks"

// Store wraps a persistent chromem database. All subjects share one
// collection; searches narrow by the subject metadata field.
type Store struct {
	db          *chromem.DB
	embed       chromem.EmbeddingFunc
	concurrency int

	mu   sync.RWMutex
	coll *chromem.Collection
}

var _ port.SemanticIndex = (*Store)(nil)
var _ port.Retriever = (*Store)(nil)

// New opens or creates the vector database under dir. The embedding
// function is called for every indexed chunk and every query.
func New(dir string, embed chromem.EmbeddingFunc, concurrency int) (*Store, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}
	coll, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	return &Store{
		db:          db,
		embed:       embed,
		concurrency: concurrency,
		coll:        coll,
	}, nil
}

func (s *Store) collection() *chromem.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll
}

// Index embeds and upserts the chunks. Document IDs come from
// Chunk.Key, so re-indexing the same source overwrites in place.
func (s *Store) Index(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:      chunk.Key(),
			Content: chunk.Text,
			Metadata: map[string]string{
				"subject":  chunk.Subject,
				"source":   chunk.Source,
				"chunk_id": strconv.Itoa(chunk.ChunkID),
			},
		}
	}
	if err := s.collection().AddDocuments(ctx, docs, s.concurrency); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Search embeds the query and returns the k nearest chunks within one
// subject, most similar first. k is clamped to the collection size,
// and an empty collection yields no results rather than an error.
func (s *Store) Search(ctx context.Context, query, subject string, k int) ([]domain.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" || k <= 0 {
		return nil, nil
	}
	coll := s.collection()
	if total := coll.Count(); total == 0 {
		return nil, nil
	} else if k > total {
		k = total
	}

	results, err := coll.Query(ctx, query, k, map[string]string{"subject": subject}, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	chunks := make([]domain.ScoredChunk, 0, len(results))
	for _, res := range results {
		chunkID, _ := strconv.Atoi(res.Metadata["chunk_id"])
		chunks = append(chunks, domain.ScoredChunk{
			Chunk: domain.Chunk{
				Subject: res.Metadata["subject"],
				Source:  res.Metadata["source"],
				ChunkID: chunkID,
				Text:    res.Content,
			},
			Score: float64(res.Similarity),
		})
	}
	return chunks, nil
}

// Count returns the number of indexed chunks across all subjects.
func (s *Store) Count() int {
	return s.collection().Count()
}

// DeleteSubject removes one subject's chunks from the collection.
func (s *Store) DeleteSubject(ctx context.Context, subject string) error {
	coll := s.collection()
	if coll.Count() == 0 {
		return nil
	}
	if err := coll.Delete(ctx, map[string]string{"subject": subject}, nil); err != nil {
		return fmt.Errorf("delete subject %q: %w", subject, err)
	}
	return nil
}

// Reset drops the collection and recreates it empty.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	coll, err := s.db.GetOrCreateCollection(collectionName, nil, s.embed)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	s.coll = coll
	return nil
}
