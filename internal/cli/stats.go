package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"madrasa/internal/adapter/store"
	"madrasa/internal/port"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index contents per subject",
	Long: `Print what the indexes currently hold: per-subject document and chunk
counts from the chunk store, and the size of the semantic collection.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if _, err := os.Stat(cfg.StorePath()); os.IsNotExist(err) {
		fmt.Println("No index found. Run 'madrasa ingest' first.")
		return nil
	}

	st, err := openStore()
	if errors.Is(err, port.ErrSchemaChanged) {
		fmt.Println("The index was built with different chunking parameters.")
		fmt.Println("Run 'madrasa ingest --reset' to rebuild it.")
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to open chunk store: %w", err)
	}
	defer st.Close()

	stamp := store.NewStamp(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap, cfg.Chunking.MinChunkLen)
	fmt.Printf("Chunk store: %s\n", cfg.StorePath())
	fmt.Printf("Schema: v%d (%s)\n\n", stamp.Version, stamp.ParamsHash)

	stats, err := st.Stats()
	if err != nil {
		return fmt.Errorf("failed to read store stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("The index is empty. Run 'madrasa ingest' to load your textbooks.")
		return nil
	}

	fmt.Printf("%-12s %10s %10s\n", "SUBJECT", "DOCUMENTS", "CHUNKS")
	totalDocs, totalChunks := 0, 0
	for _, s := range stats {
		fmt.Printf("%-12s %10d %10d\n", s.Subject, s.Documents, s.Chunks)
		totalDocs += s.Documents
		totalChunks += s.Chunks
	}
	fmt.Printf("%-12s %10d %10d\n", "total", totalDocs, totalChunks)

	semantic, err := openSemantic()
	if err != nil {
		return nil
	}
	fmt.Printf("\nVector collection: %d documents (%s)\n", semantic.Count(), cfg.VectorDir())
	return nil
}
