package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"madrasa/internal/adapter/chunker"
	"madrasa/internal/adapter/cleaner"
	"madrasa/internal/adapter/fs"
	"madrasa/internal/port"
	"madrasa/internal/usecase"
)

var ingestReset bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index subject documents for retrieval",
	Long: `Extract, clean and chunk the documents under each subject directory,
then index the chunks for lexical and semantic retrieval.

Documents live in <data_dir>/<subject>/ and are matched against the
configured patterns (PDF, TXT, MD by default).

Examples:
  madrasa ingest            # Index all configured subjects
  madrasa ingest --reset    # Clear existing indexes first`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "clear existing indexes before ingesting")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	created, err := cfg.EnsureDirs()
	if err != nil {
		return fmt.Errorf("failed to create data directories: %w", err)
	}
	for _, dir := range created {
		fmt.Printf("Created %s\n", dir)
	}

	doReset := ingestReset

	st, err := openStore()
	if errors.Is(err, port.ErrSchemaChanged) {
		fmt.Println("Chunking parameters changed since the last ingest; the index must be rebuilt.")
		if !doReset && !confirm("Rebuild now? (y/n): ") {
			return err
		}
		if rmErr := os.Remove(cfg.StorePath()); rmErr != nil {
			return fmt.Errorf("failed to remove outdated chunk store: %w", rmErr)
		}
		doReset = true
		st, err = openStore()
	}
	if err != nil {
		return fmt.Errorf("failed to open chunk store: %w", err)
	}
	defer st.Close()

	semantic, err := openSemantic()
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}

	if !doReset && semantic.Count() > 0 {
		if confirm(fmt.Sprintf("Collection already has %d documents. Reset? (y/n): ", semantic.Count())) {
			doReset = true
		} else {
			fmt.Println("Keeping existing collection.")
		}
	}

	ingestUC := usecase.NewIngestUseCase(
		st,
		semantic,
		newLexical(),
		fs.NewLister(cfg.Extract.Patterns),
		newExtractors(),
		cleaner.NewRegistry(),
		chunker.NewStructure(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap, cfg.Chunking.MinChunkLen),
		logger,
	)

	fmt.Printf("Ingesting %d subjects from %s...\n", len(cfg.Subjects), cfg.DataDir)

	// Progress bar (initialized once the total document count is known)
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time
	var initialized bool

	progressCallback := func(processed, total int, file string) {
		barMu.Lock()
		defer barMu.Unlock()

		if !initialized {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
			initialized = true
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Ingesting[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, err := ingestUC.Run(ctx, usecase.IngestOptions{
		Subjects: cfg.Subjects,
		DataDir:  cfg.DataDir,
		Reset:    doReset,
		Progress: progressCallback,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if result.Documents == 0 && result.Failures == 0 {
		printNoSourcesHelp()
		return errors.New("no source documents found")
	}

	fmt.Printf("\nIngestion complete in %s:\n", formatDuration(result.Duration))
	for _, sr := range result.Subjects {
		line := fmt.Sprintf("  %-10s %3d documents  %5d chunks", sr.Subject, sr.Documents, sr.Chunks)
		if sr.Failed > 0 {
			line += fmt.Sprintf("  (%d failed)", sr.Failed)
		}
		fmt.Println(line)
	}
	fmt.Printf("\nTotals: %d documents, %d chunks", result.Documents, result.Chunks)
	if result.Failures > 0 {
		fmt.Printf(", %d failed", result.Failures)
	}
	fmt.Println()

	fmt.Printf("\nIndex stored at: %s\n", cfg.IndexDir)
	fmt.Println("You can now run: madrasa chat")
	return nil
}

// confirm prompts on stdout and accepts y/Y as agreement. Anything
// else, including EOF, declines.
func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func printNoSourcesHelp() {
	fmt.Println("\nNo source documents found!")
	fmt.Println("Place your study materials in the subject directories:")
	for _, subject := range cfg.Subjects {
		fmt.Printf("  %s%c\n", cfg.SubjectDir(subject), os.PathSeparator)
	}
	fmt.Println("\nSupported formats: PDF, TXT, MD")
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
