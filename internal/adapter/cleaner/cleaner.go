// Package cleaner holds the subject-aware text cleaning strategies
// applied between extraction and chunking. Every strategy shares the
// same baseline noise removal and adds passes for the artifacts its
// textbooks produce (OCR debris, figure captions, exam layouts).
package cleaner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ruleLineRe = regexp.MustCompile(`^[-_=]{3,}|^[—–]{3,}$`)
	sepOnlyRe  = regexp.MustCompile(`^[-=_\s]+$`)
)

// baseClean drops line noise that no subject wants: blank lines, bare
// page numbers, sub-3-rune fragments and separator rules. Retained
// lines keep their original form and order.
func baseClean(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if isDigits(s) && utf8.RuneCountInString(s) < 4 {
			continue
		}
		if utf8.RuneCountInString(s) < 3 && s != "." && s != "!" && s != "?" {
			continue
		}
		if ruleLineRe.MatchString(s) {
			continue
		}
		if sepOnlyRe.MatchString(s) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
