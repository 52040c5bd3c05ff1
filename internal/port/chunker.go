package port

import "madrasa/internal/domain"

type Chunker interface {
	Chunk(subject, source, text string) ([]domain.Chunk, error)
}
