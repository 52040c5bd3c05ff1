package analyzer

import "strings"

// Tokenizer splits text into query/index terms: Unicode case fold, then
// whitespace split. No stemming and no stopword removal, since the
// corpus mixes Arabic and English and both would mangle one side or
// the other. Indexing and querying must share one Tokenizer so the two
// sides agree on term boundaries.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text into lowercased whitespace-delimited tokens.
func (t *Tokenizer) Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
