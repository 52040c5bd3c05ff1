package cleaner

import (
	"regexp"

	"madrasa/internal/port"
)

var optionMarkerRe = regexp.MustCompile(`\s+([A-D]\.)\s+`)

// English cleans English-language exam books. Multiple-choice option
// markers squeezed onto one line are forced onto their own lines so a
// question and its options stay chunkable as a unit.
type English struct{}

var _ port.Cleaner = (*English)(nil)

func NewEnglish() *English {
	return &English{}
}

func (c *English) Clean(text string) string {
	text = baseClean(text)
	return optionMarkerRe.ReplaceAllString(text, "\n$1 ")
}
