package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"madrasa/internal/domain"
)

// PDF extracts per-page text from a PDF file. Pages whose native text
// layer is too short to be usable fall back to OCR when an OCR engine
// is configured; forceOCR sends every page there, which is what
// scanned Arabic textbooks need.
type PDF struct {
	ocr        *OCR
	forceOCR   bool
	minPageLen int
	log        *slog.Logger
}

func NewPDF(ocr *OCR, forceOCR bool, minPageLen int, log *slog.Logger) *PDF {
	if minPageLen <= 0 {
		minPageLen = 50
	}
	if log == nil {
		log = slog.Default()
	}
	return &PDF{
		ocr:        ocr,
		forceOCR:   forceOCR,
		minPageLen: minPageLen,
		log:        log,
	}
}

func (e *PDF) Extract(ctx context.Context, path string) (pages []domain.Page, err error) {
	// The parser panics on malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("parse pdf %s: %v", filepath.Base(path), r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages = make([]domain.Page, 0, total)
	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var text string
		page := reader.Page(num)
		if !page.V.IsNull() {
			// Extraction errors leave the page empty so the OCR
			// fallback can still rescue it.
			text, _ = page.GetPlainText(nil)
		}

		if e.needsOCR(text) && e.ocr != nil {
			ocrText, ocrErr := e.ocr.Page(ctx, path, num)
			if ocrErr != nil {
				e.log.Warn("ocr failed, keeping native text",
					"file", filepath.Base(path), "page", num, "error", ocrErr)
			} else {
				text = ocrText
			}
		}

		pages = append(pages, domain.Page{Number: num, Text: text})
	}
	return pages, nil
}

func (e *PDF) needsOCR(text string) bool {
	if e.forceOCR {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)) < e.minPageLen
}
