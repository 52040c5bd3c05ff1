package chunker

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators, most to least structural. The empty string is the
// terminal fallback: split at character boundaries.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter splits text into size-bounded pieces by recursing
// through a separator hierarchy. A fragment larger than the budget is
// re-split with the next, finer separator; small fragments are packed
// greedily, and each new piece starts with the tail fragments of its
// predecessor up to the overlap budget. Sizes are measured in runes.
type RecursiveSplitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

func NewRecursiveSplitter(chunkSize, overlap int) *RecursiveSplitter {
	return &RecursiveSplitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

func (s *RecursiveSplitter) Split(text string) []string {
	return s.splitText(text, s.separators)
}

func (s *RecursiveSplitter) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	splits := splitKeepSeparator(text, separator)

	var final []string
	var good []string
	for _, frag := range splits {
		if utf8.RuneCountInString(frag) < s.chunkSize {
			good = append(good, frag)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(next) == 0 {
			final = append(final, frag)
		} else {
			final = append(final, s.splitText(frag, next)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// splitKeepSeparator splits text, keeping each separator attached to
// the front of the fragment that follows it, so rejoining fragments
// reproduces the original text.
func splitKeepSeparator(text, separator string) []string {
	if separator == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, separator)
	splits := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = separator + p
		}
		if p != "" {
			splits = append(splits, p)
		}
	}
	return splits
}

// merge packs fragments into pieces of at most chunkSize runes. When a
// piece is emitted, fragments are dropped from its front until at most
// overlap runes remain; those seed the next piece.
func (s *RecursiveSplitter) merge(splits []string) []string {
	var docs []string
	var current []string
	total := 0

	for _, frag := range splits {
		l := utf8.RuneCountInString(frag)
		if total+l > s.chunkSize && len(current) > 0 {
			if doc := joinStrip(current); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.overlap || (total+l > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, frag)
		total += l
	}
	if doc := joinStrip(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinStrip(fragments []string) string {
	return strings.TrimSpace(strings.Join(fragments, ""))
}
