package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"madrasa/internal/domain"
)

// Markdown splits a markdown file into pages at top-level headings so
// downstream chunking sees the same section boundaries a PDF's pages
// would give it.
type Markdown struct{}

func (Markdown) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	var pages []domain.Page
	var buf strings.Builder
	flush := func() {
		if strings.TrimSpace(buf.String()) != "" {
			pages = append(pages, domain.Page{Number: len(pages) + 1, Text: buf.String()})
		}
		buf.Reset()
	}

	walkErr := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			switch node := n.(type) {
			case *ast.Heading:
				if node.Level <= 2 {
					flush()
				}
				buf.WriteString(headingText(node, content))
				buf.WriteString("\n\n")
				return ast.WalkSkipChildren, nil
			case *ast.Text:
				buf.Write(node.Segment.Value(content))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}
			return ast.WalkContinue, nil
		}

		switch n.(type) {
		case *ast.Paragraph:
			buf.WriteString("\n\n")
		case *ast.ListItem:
			buf.WriteString("\n")
		}
		return ast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("parse markdown %s: %w", filepath.Base(path), walkErr)
	}
	flush()

	return pages, nil
}

func headingText(node ast.Node, source []byte) string {
	var buf strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(source))
		}
	}
	return buf.String()
}
