package port

import (
	"errors"

	"madrasa/internal/domain"
)

// ErrSchemaChanged is returned when a chunk store was written with
// different chunking parameters. The partition indexes must be rebuilt
// from scratch before the store can be used again.
var ErrSchemaChanged = errors.New("chunk store schema changed")

// ErrNotIngested is returned when chat or query starts against a store
// that holds no chunks.
var ErrNotIngested = errors.New("no ingested content")

type ChunkStore interface {
	PutChunks(chunks []domain.Chunk) error

	// ChunksBySubject returns a subject's chunks ordered by source and
	// chunk id.
	ChunksBySubject(subject string) ([]domain.Chunk, error)

	Subjects() ([]string, error)

	Stats() ([]domain.SubjectStats, error)

	DeleteSubject(subject string) error

	Reset() error

	Close() error
}
