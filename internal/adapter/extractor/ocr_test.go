package extractor

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"madrasa/internal/port"
)

type fakeRunner struct {
	calls   [][]string
	outputs map[string][]byte
	errs    map[string]error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.outputs[name], f.errs[name]
}

func TestOCR_Page(t *testing.T) {
	runner := &fakeRunner{outputs: map[string][]byte{
		"tesseract": []byte("الدرس الأول\n"),
	}}
	ocr := NewOCRWithRunner(runner, "ara+eng", 200)

	got, err := ocr.Page(context.Background(), "/data/arabic/book.pdf", 3)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if got != "الدرس الأول\n" {
		t.Errorf("text = %q", got)
	}

	if len(runner.calls) != 2 {
		t.Fatalf("ran %d commands, want 2", len(runner.calls))
	}
	render := strings.Join(runner.calls[0], " ")
	if runner.calls[0][0] != "pdftoppm" {
		t.Errorf("first command = %q, want pdftoppm", runner.calls[0][0])
	}
	if !strings.Contains(render, "-f 3 -l 3") {
		t.Errorf("pdftoppm not limited to page 3: %q", render)
	}
	if !strings.Contains(render, "-r 200") {
		t.Errorf("pdftoppm resolution missing: %q", render)
	}
	recognize := strings.Join(runner.calls[1], " ")
	if runner.calls[1][0] != "tesseract" {
		t.Errorf("second command = %q, want tesseract", runner.calls[1][0])
	}
	if !strings.Contains(recognize, "-l ara+eng") {
		t.Errorf("tesseract language missing: %q", recognize)
	}
}

func TestOCR_RenderFailure(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"pdftoppm": errors.New("exit status 1"),
	}}
	ocr := NewOCRWithRunner(runner, "ara+eng", 200)

	if _, err := ocr.Page(context.Background(), "book.pdf", 1); err == nil {
		t.Fatal("expected an error when rendering fails")
	}
}

func TestOCR_RecognitionFailure(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{
		"tesseract": errors.New("exit status 1"),
	}}
	ocr := NewOCRWithRunner(runner, "ara+eng", 200)

	if _, err := ocr.Page(context.Background(), "book.pdf", 1); err == nil {
		t.Fatal("expected an error when recognition fails")
	}
}

func TestOCR_Defaults(t *testing.T) {
	runner := &fakeRunner{}
	ocr := NewOCRWithRunner(runner, "", 0)

	if _, err := ocr.Page(context.Background(), "book.pdf", 1); err != nil {
		t.Fatalf("page: %v", err)
	}
	render := strings.Join(runner.calls[0], " ")
	if !strings.Contains(render, "-r 200") {
		t.Errorf("default resolution not applied: %q", render)
	}
	recognize := strings.Join(runner.calls[1], " ")
	if !strings.Contains(recognize, "-l ara+eng") {
		t.Errorf("default languages not applied: %q", recognize)
	}
}

func TestOCR_AvailableSentinel(t *testing.T) {
	_, errPpm := exec.LookPath("pdftoppm")
	_, errTess := exec.LookPath("tesseract")
	if errPpm == nil && errTess == nil {
		t.Skip("ocr tools installed")
	}

	err := NewOCR("ara+eng", 200).Available()
	if !errors.Is(err, port.ErrOCRUnavailable) {
		t.Fatalf("err = %v, want ErrOCRUnavailable", err)
	}
}
