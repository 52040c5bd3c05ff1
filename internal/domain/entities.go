package domain

import "fmt"

// Page is one unit of extracted text from a source document. For PDFs it
// maps to a physical page, for markdown to a heading section, for plain
// text to the whole file.
type Page struct {
	Number int
	Text   string
}

// Chunk is the unit of indexing and retrieval: a span of cleaned text
// from one source document inside one subject partition.
type Chunk struct {
	Subject string `json:"subject"`
	Source  string `json:"source"`
	ChunkID int    `json:"chunk_id"`
	Text    string `json:"text"`
}

// Key is the stable external identifier used for vector-store upserts.
// Re-ingesting the same document overwrites rather than duplicates.
func (c Chunk) Key() string {
	return fmt.Sprintf("%s_%s_%d", c.Subject, c.Source, c.ChunkID)
}

// ScoredChunk is a chunk with a retrieval score. The meaning of Score
// depends on the producer: BM25 score, semantic similarity, or a fused
// rank score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// FusedChunk is the output of hybrid retrieval: the fused score plus the
// per-source scores that produced it. A zero source score means the chunk
// was absent from that source's list.
type FusedChunk struct {
	Chunk         Chunk
	Score         float64
	LexicalScore  float64
	SemanticScore float64
}

// SubjectStats summarizes one subject partition in the chunk store.
type SubjectStats struct {
	Subject   string
	Documents int
	Chunks    int
}

// Interaction is one user/assistant exchange kept in conversation memory.
type Interaction struct {
	User      string
	Assistant string
}

// Mode selects the prompt strategy for generation.
type Mode string

const (
	ModeAsk     Mode = "ask"
	ModeQuiz    Mode = "quiz"
	ModeExplain Mode = "explain"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeAsk, ModeQuiz, ModeExplain:
		return true
	}
	return false
}
