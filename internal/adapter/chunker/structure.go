package chunker

import (
	"regexp"
	"strings"
)

// Structural header patterns for both corpus languages. A line matching
// one of these starts a chapter, unit, lesson or numbered section and
// must never be merged into a neighboring paragraph.
var headerRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(chapter|unit|lesson|lecture)\s+\d+`),
	regexp.MustCompile(`(?i)^section\s+\d+`),
	regexp.MustCompile(`^(الباب|الفصل|الدرس|الوحدة|المحاضرة)\s+(الأول|الثاني|الثالث|الرابع|الخامس|السادس|السابع|الثامن|التاسع|عشر|\d+)`),
	regexp.MustCompile(`^\d+\s*-\s*`),
}

func isHeader(line string) bool {
	for _, re := range headerRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// reconstructParagraphs merges lines that PDF extraction broke apart.
// Lines accumulate into a paragraph until a blank line, a structural
// header, or a sentence-terminal ending flushes it. Headers are emitted
// as their own paragraph with forced blank padding so the splitter
// starts a fresh chunk at each one.
func reconstructParagraphs(text string) string {
	lines := strings.Split(text, "\n")
	var paras []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		if isHeader(line) {
			flush()
			paras = append(paras, "\n\n"+line+"\n\n")
			continue
		}

		current = append(current, line)

		if endsSentence(line) {
			flush()
		}
	}
	flush()

	return strings.Join(paras, "\n\n")
}

func endsSentence(line string) bool {
	for _, suffix := range []string{".", ":", "!", "?", "؟"} {
		if strings.HasSuffix(line, suffix) {
			return true
		}
	}
	return false
}
