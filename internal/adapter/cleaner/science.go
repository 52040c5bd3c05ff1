package cleaner

import (
	"regexp"

	"madrasa/internal/port"
)

var (
	scienceFigRe = regexp.MustCompile(`(?mi)^(Fig|Shape|Figure)\.?\s*\(?\d+\)?.*$`)
	loneLetterRe = regexp.MustCompile(`(?m)^\s*[A-Z]\s*$`)
	bulletDotRe  = regexp.MustCompile(`(?m)^\s*[·•●]\s*`)
)

// Science cleans chemistry and biology textbooks: figure captions,
// single-letter diagram labels, and unicode bullets normalized to a
// plain list marker.
type Science struct{}

var _ port.Cleaner = (*Science)(nil)

func NewScience() *Science {
	return &Science{}
}

func (c *Science) Clean(text string) string {
	text = baseClean(text)
	text = scienceFigRe.ReplaceAllString(text, "")
	text = loneLetterRe.ReplaceAllString(text, "")
	return bulletDotRe.ReplaceAllString(text, "- ")
}
