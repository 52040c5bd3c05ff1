package cleaner

import (
	"regexp"
	"strings"

	"madrasa/internal/port"
)

var (
	isolatedLatinRe = regexp.MustCompile(`\s[a-zA-Z]\s`)
	arabicPunctRe   = regexp.MustCompile(`\s+([،؛؟])`)
)

// Arabic cleans Arabic-language textbooks. OCR output of these books
// carries table borders rendered as pipes and underscores, and stray
// Latin letters from diagram labels.
type Arabic struct{}

var _ port.Cleaner = (*Arabic)(nil)

func NewArabic() *Arabic {
	return &Arabic{}
}

func (c *Arabic) Clean(text string) string {
	text = baseClean(text)

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Count(line, "|") > 2 || strings.Count(line, "_") > 5 {
			continue
		}
		kept = append(kept, isolatedLatinRe.ReplaceAllString(line, " "))
	}
	text = strings.Join(kept, "\n")

	// Arabic punctuation hugs the preceding word.
	return arabicPunctRe.ReplaceAllString(text, "$1")
}
