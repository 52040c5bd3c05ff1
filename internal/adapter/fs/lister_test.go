package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("touch %s: %v", name, err)
		}
	}
}

func names(t *testing.T, dir string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestLister_TopLevelPatterns(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "algebra.pdf", "notes.txt", "cover.jpg", "nested/deep.pdf")

	got, err := NewLister([]string{"*.pdf", "*.txt", "*.md"}).List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"algebra.pdf", "notes.txt"}
	rel := names(t, dir, got)
	if len(rel) != len(want) {
		t.Fatalf("got %v, want %v", rel, want)
	}
	for i := range want {
		if rel[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, rel[i], want[i])
		}
	}
}

func TestLister_DoublestarDescends(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "top.pdf", "term1/ch1.pdf", "term1/extra/ch2.pdf")

	got, err := NewLister([]string{"**/*.pdf"}).List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d files, want 3: %v", len(got), names(t, dir, got))
	}
}

func TestLister_SkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "book.pdf", ".cache/stale.pdf")

	got, err := NewLister([]string{"**/*.pdf"}).List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d files, want 1 (hidden dirs skipped): %v", len(got), names(t, dir, got))
	}
}

func TestLister_MissingDir(t *testing.T) {
	if _, err := NewLister(nil).List(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func TestLister_EmptyDir(t *testing.T) {
	got, err := NewLister([]string{"*.pdf"}).List(t.TempDir())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d files from empty dir, want 0", len(got))
	}
}
