// Package extractor turns source documents into per-page plain text.
// PDFs are read natively with an OCR fallback for scanned pages,
// markdown is split into heading sections, and plain text passes
// through as a single page.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

// Dispatcher routes a source file to the extractor for its extension.
type Dispatcher struct {
	pdf      *PDF
	markdown *Markdown
	text     *Text
}

var _ port.Extractor = (*Dispatcher)(nil)

func NewDispatcher(pdf *PDF) *Dispatcher {
	return &Dispatcher{
		pdf:      pdf,
		markdown: &Markdown{},
		text:     &Text{},
	}
}

func (d *Dispatcher) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return d.pdf.Extract(ctx, path)
	case ".md", ".markdown":
		return d.markdown.Extract(ctx, path)
	case ".txt":
		return d.text.Extract(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", port.ErrUnsupportedFormat, filepath.Ext(path))
	}
}
