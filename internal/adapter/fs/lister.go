// Package fs lists ingestible source files under a subject directory.
package fs

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"madrasa/internal/port"
)

// Lister walks a directory and keeps the files whose path relative to
// the root matches one of the patterns. Plain patterns like "*.pdf"
// only match the top level; "**/*.pdf" descends.
type Lister struct {
	patterns []string
}

var _ port.SourceLister = (*Lister)(nil)

func NewLister(patterns []string) *Lister {
	if len(patterns) == 0 {
		patterns = []string{"**/*"}
	}
	return &Lister{patterns: patterns}
}

// List returns matching file paths in walk order, which is lexical and
// therefore stable across runs.
func (l *Lister) List(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if l.matches(filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sources in %s: %w", dir, err)
	}
	return files, nil
}

func (l *Lister) matches(rel string) bool {
	for _, pattern := range l.patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
