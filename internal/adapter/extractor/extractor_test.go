package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"madrasa/internal/port"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDispatcher_UnsupportedFormat(t *testing.T) {
	d := NewDispatcher(NewPDF(nil, false, 50, nil))
	path := writeFile(t, t.TempDir(), "notes.docx", "binary")

	_, err := d.Extract(context.Background(), path)
	if !errors.Is(err, port.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDispatcher_RoutesByExtension(t *testing.T) {
	d := NewDispatcher(NewPDF(nil, false, 50, nil))
	dir := t.TempDir()

	txt := writeFile(t, dir, "notes.txt", "plain text body")
	pages, err := d.Extract(context.Background(), txt)
	if err != nil {
		t.Fatalf("extract txt: %v", err)
	}
	if len(pages) != 1 || pages[0].Text != "plain text body" {
		t.Errorf("txt pages = %+v", pages)
	}

	// Extension matching is case-insensitive.
	upper := writeFile(t, dir, "NOTES.TXT", "upper case name")
	if _, err := d.Extract(context.Background(), upper); err != nil {
		t.Errorf("extract uppercase txt: %v", err)
	}

	md := writeFile(t, dir, "notes.md", "# Title\n\nBody.\n")
	pages, err = d.Extract(context.Background(), md)
	if err != nil {
		t.Fatalf("extract md: %v", err)
	}
	if len(pages) != 1 {
		t.Errorf("md pages = %d, want 1", len(pages))
	}
}

func TestText_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", "")

	pages, err := Text{}.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("got %d pages from empty file, want 0", len(pages))
	}
}

func TestText_MissingFile(t *testing.T) {
	if _, err := (Text{}).Extract(context.Background(), filepath.Join(t.TempDir(), "gone.txt")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
