package cleaner

import (
	"regexp"
	"strings"

	"madrasa/internal/port"
)

var (
	mathFigRe   = regexp.MustCompile(`(?m)^Fig\.?\s*\d+.*$`)
	mathOps     = []string{"=", "+", "-", "×", "÷"}
	hspaceRunRe = regexp.MustCompile(`[ \t]+`)
)

// MathPhysics cleans math and physics textbooks: figure captions go,
// operators get padded so equations tokenize term by term.
type MathPhysics struct{}

var _ port.Cleaner = (*MathPhysics)(nil)

func NewMathPhysics() *MathPhysics {
	return &MathPhysics{}
}

func (c *MathPhysics) Clean(text string) string {
	text = baseClean(text)
	text = mathFigRe.ReplaceAllString(text, "")
	for _, op := range mathOps {
		text = strings.ReplaceAll(text, op, " "+op+" ")
	}
	// Collapse horizontal whitespace only. Newlines are paragraph
	// structure and must survive.
	return hspaceRunRe.ReplaceAllString(text, " ")
}
