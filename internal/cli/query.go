package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"madrasa/internal/port"
)

var (
	queryText    string
	querySubject string
	queryTopK    int
	queryJSON    bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search a subject without the LLM",
	Long: `Run one hybrid retrieval pass over a subject and print the fused
candidates with their lexical and semantic scores. Useful for checking
what the chat assistant would ground its answer on.

Examples:
  madrasa query -q "قانون أوم" -s physics
  madrasa query -q "photosynthesis" -s biology -k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().StringVarP(&querySubject, "subject", "s", "", "subject to search (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
	queryCmd.MarkFlagRequired("subject")
}

type queryResult struct {
	Subject       string  `json:"subject"`
	Source        string  `json:"source"`
	ChunkID       int     `json:"chunk_id"`
	Score         float64 `json:"score"`
	LexicalScore  float64 `json:"lexical_score"`
	SemanticScore float64 `json:"semantic_score"`
	Text          string  `json:"text"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	if !cfg.HasSubject(querySubject) {
		return fmt.Errorf("unknown subject %q (configured: %s)", querySubject, strings.Join(cfg.Subjects, ", "))
	}

	if _, err := os.Stat(cfg.StorePath()); os.IsNotExist(err) {
		return fmt.Errorf("no index found, run 'madrasa ingest' first")
	}

	st, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open chunk store: %w", err)
	}
	defer st.Close()

	semantic, err := openSemantic()
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}

	lexical := newLexical()
	total, err := rebuildLexical(st, lexical)
	if err != nil {
		return fmt.Errorf("failed to build lexical indexes: %w", err)
	}
	if total == 0 {
		return fmt.Errorf("the index is empty, run 'madrasa ingest' first: %w", port.ErrNotIngested)
	}

	fused := newFusedRetriever(lexical, semantic)

	topK := cfg.Retrieval.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	results, err := fused.Search(ctx, queryText, querySubject, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		out := make([]queryResult, len(results))
		for i, r := range results {
			out[i] = queryResult{
				Subject:       r.Chunk.Subject,
				Source:        r.Chunk.Source,
				ChunkID:       r.Chunk.ChunkID,
				Score:         r.Score,
				LexicalScore:  r.LexicalScore,
				SemanticScore: r.SemanticScore,
				Text:          r.Chunk.Text,
			}
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] %s #%d (fused: %.4f, bm25: %.2f, cosine: %.2f) ---\n",
			i+1, r.Chunk.Source, r.Chunk.ChunkID, r.Score, r.LexicalScore, r.SemanticScore)
		fmt.Println(truncateRunes(r.Chunk.Text, 500))
		fmt.Println()
	}
	return nil
}

// truncateRunes shortens text for display without splitting an Arabic
// rune mid-sequence.
func truncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
