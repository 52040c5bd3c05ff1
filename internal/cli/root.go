package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"madrasa/config"
)

var (
	cfgFile string
	dataDir string
	verbose bool
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "madrasa",
	Short: "Madrasa - study assistant for Thanaweya Amma subjects",
	Long: `Madrasa indexes subject textbooks (PDF, text, markdown) and answers
student questions over them using hybrid BM25 + semantic retrieval and
a local Ollama model. Content is organized per subject and the answers
cite the retrieved passages.

Example usage:
  madrasa ingest                       # Index data/<subject>/ documents
  madrasa chat                         # Interactive study session
  madrasa query -q "أوم" -s physics    # One-shot retrieval, no LLM
  madrasa stats                        # Index contents per subject`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		logger = newLogger(cfg.Logging.Level, verbose)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command with the given context. Commands see
// it as cmd.Context(), so cancelling it aborts in-flight retrieval and
// generation.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./madrasa.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "subject data directory (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func GetConfig() *config.Config {
	return cfg
}

func newLogger(level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
