// Package chunker turns cleaned document text into indexable chunks.
// Two stages: paragraph reconstruction repairs the line breaks PDF
// extraction introduces, then a recursive splitter cuts the result
// into size-bounded, overlapping pieces.
package chunker

import (
	"strings"
	"unicode/utf8"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

type Structure struct {
	splitter *RecursiveSplitter
	minLen   int
}

var _ port.Chunker = (*Structure)(nil)

func NewStructure(chunkSize, overlap, minLen int) *Structure {
	return &Structure{
		splitter: NewRecursiveSplitter(chunkSize, overlap),
		minLen:   minLen,
	}
}

// Chunk splits text into chunks for one document. Chunk ids are
// assigned after the minimum-length filter, so they are 0-based, dense
// and strictly increasing within the document.
func (c *Structure) Chunk(subject, source, text string) ([]domain.Chunk, error) {
	reconstructed := reconstructParagraphs(text)
	pieces := c.splitter.Split(reconstructed)

	chunks := make([]domain.Chunk, 0, len(pieces))
	id := 0
	for _, piece := range pieces {
		if utf8.RuneCountInString(strings.TrimSpace(piece)) < c.minLen {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			Subject: subject,
			Source:  source,
			ChunkID: id,
			Text:    piece,
		})
		id++
	}
	return chunks, nil
}
