package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

const (
	defaultRRFK           = 60
	defaultLexicalWeight  = 0.4
	defaultSemanticWeight = 0.6
)

// Hybrid runs lexical and semantic retrieval side by side and fuses
// the two rankings with reciprocal rank fusion. Either source may fail
// or come back empty; the other still answers.
type Hybrid struct {
	lexical   port.Retriever
	semantic  port.Retriever
	rrfK      int
	wLexical  float64
	wSemantic float64
	log       *slog.Logger
}

var _ port.FusedRetriever = (*Hybrid)(nil)

func NewHybrid(lexical, semantic port.Retriever, rrfK int, lexicalWeight, semanticWeight float64, log *slog.Logger) *Hybrid {
	if rrfK <= 0 {
		rrfK = defaultRRFK
	}
	if lexicalWeight <= 0 && semanticWeight <= 0 {
		lexicalWeight = defaultLexicalWeight
		semanticWeight = defaultSemanticWeight
	}
	if log == nil {
		log = slog.Default()
	}
	return &Hybrid{
		lexical:   lexical,
		semantic:  semantic,
		rrfK:      rrfK,
		wLexical:  lexicalWeight,
		wSemantic: semanticWeight,
		log:       log,
	}
}

// Search fans out to both sources for 2*k candidates each, fuses the
// rankings and returns the top k. One source failing degrades to the
// other; only both failing is an error.
func (h *Hybrid) Search(ctx context.Context, query, subject string, k int) ([]domain.FusedChunk, error) {
	if k <= 0 {
		return nil, nil
	}
	retrieveK := k * 2

	var (
		wg       sync.WaitGroup
		lexical  []domain.ScoredChunk
		semantic []domain.ScoredChunk
		lexErr   error
		semErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		lexical, lexErr = h.lexical.Search(ctx, query, subject, retrieveK)
	}()
	go func() {
		defer wg.Done()
		semantic, semErr = h.semantic.Search(ctx, query, subject, retrieveK)
	}()
	wg.Wait()

	if lexErr != nil && semErr != nil {
		return nil, fmt.Errorf("hybrid search: lexical: %v; semantic: %w", lexErr, semErr)
	}
	if lexErr != nil {
		h.log.Warn("lexical search failed, continuing with semantic results",
			"subject", subject, "error", lexErr)
	}
	if semErr != nil {
		h.log.Warn("semantic search failed, continuing with lexical results",
			"subject", subject, "error", semErr)
	}

	fused := h.fuse(lexical, semantic)
	if len(fused) > k {
		fused = fused[:k]
	}
	return fused, nil
}

// fuse merges the two rankings. Chunks are keyed by their text, so the
// same passage surfacing in both rankings accumulates both
// contributions. Metadata comes from whichever ranking saw the chunk
// first, and score ties keep that first-seen order.
func (h *Hybrid) fuse(lexical, semantic []domain.ScoredChunk) []domain.FusedChunk {
	byText := make(map[string]int, len(lexical)+len(semantic))
	fused := make([]domain.FusedChunk, 0, len(lexical)+len(semantic))

	add := func(sc domain.ScoredChunk) int {
		pos, ok := byText[sc.Chunk.Text]
		if !ok {
			pos = len(fused)
			byText[sc.Chunk.Text] = pos
			fused = append(fused, domain.FusedChunk{Chunk: sc.Chunk})
		}
		return pos
	}

	for rank, sc := range lexical {
		pos := add(sc)
		fused[pos].Score += h.wLexical / float64(h.rrfK+rank+1)
		fused[pos].LexicalScore = sc.Score
	}
	for rank, sc := range semantic {
		pos := add(sc)
		fused[pos].Score += h.wSemantic / float64(h.rrfK+rank+1)
		fused[pos].SemanticScore = sc.Score
	}

	sort.SliceStable(fused, func(i, j int) bool { return fused[i].Score > fused[j].Score })
	return fused
}
