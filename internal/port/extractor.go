package port

import (
	"context"
	"errors"

	"madrasa/internal/domain"
)

// ErrUnsupportedFormat is returned when no extractor handles a file's
// extension.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrOCRUnavailable is returned when the OCR toolchain is not installed.
var ErrOCRUnavailable = errors.New("ocr tools not available")

// Extractor pulls raw text out of a source document, one Page per
// physical page or section.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}

// SourceLister enumerates ingestible files under a subject directory.
type SourceLister interface {
	List(dir string) ([]string, error)
}
