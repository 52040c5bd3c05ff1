package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"madrasa/internal/domain"
)

// Text reads a plain text file as a single page.
type Text struct{}

func (Text) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(content) == 0 {
		return nil, nil
	}
	return []domain.Page{{Number: 1, Text: string(content)}}, nil
}
