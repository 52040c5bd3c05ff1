package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"madrasa/internal/port"
)

// CommandRunner executes an external tool and returns its stdout.
// Injected so tests can fake the OCR toolchain.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// OCR recognizes one PDF page at a time by rendering it with pdftoppm
// and reading the image with tesseract.
type OCR struct {
	runner    CommandRunner
	languages string
	dpi       int
}

func NewOCR(languages string, dpi int) *OCR {
	return NewOCRWithRunner(execRunner{}, languages, dpi)
}

func NewOCRWithRunner(runner CommandRunner, languages string, dpi int) *OCR {
	if languages == "" {
		languages = "ara+eng"
	}
	if dpi <= 0 {
		dpi = 200
	}
	return &OCR{
		runner:    runner,
		languages: languages,
		dpi:       dpi,
	}
}

// Available reports whether both OCR tools are installed.
func (o *OCR) Available() error {
	for _, tool := range []string{"pdftoppm", "tesseract"} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s not in PATH", port.ErrOCRUnavailable, tool)
		}
	}
	return nil
}

// Page renders the given page to a temporary PNG and runs character
// recognition over it.
func (o *OCR) Page(ctx context.Context, pdfPath string, page int) (string, error) {
	tmp, err := os.MkdirTemp("", "madrasa-ocr-")
	if err != nil {
		return "", fmt.Errorf("ocr temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	prefix := filepath.Join(tmp, "page")
	pageArg := strconv.Itoa(page)
	if _, err := o.runner.Run(ctx, "pdftoppm",
		"-png", "-r", strconv.Itoa(o.dpi),
		"-f", pageArg, "-l", pageArg,
		"-singlefile", pdfPath, prefix); err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w", page, err)
	}

	out, err := o.runner.Run(ctx, "tesseract", prefix+".png", "stdout", "-l", o.languages)
	if err != nil {
		return "", fmt.Errorf("tesseract page %d: %w", page, err)
	}
	return string(out), nil
}
