package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"madrasa/internal/adapter/llm"
	"madrasa/internal/domain"
	"madrasa/internal/port"
	"madrasa/internal/usecase"
)

var (
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Border(lipgloss.RoundedBorder()).Padding(0, 2)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	memoryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	youStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	botStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive study session",
	Long: `Start an interactive study session. Pick a subject and a mode, then
ask questions, request quizzes or ask for explanations over the
ingested content. Answers stream from the configured Ollama model.

In-session commands:
  clear    clear conversation memory
  change   switch subject/mode
  quit     exit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func rule() string {
	return headerStyle.Render(strings.Repeat("=", 60))
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	fmt.Println(bannerStyle.Render("📚 Thanaweya Amma Study Assistant 📚"))
	fmt.Println(noticeStyle.Render("Initializing system..."))

	fmt.Println(noticeStyle.Render("[1/3] Opening indexes..."))
	if _, err := os.Stat(cfg.StorePath()); os.IsNotExist(err) {
		fmt.Println(errorStyle.Render("No index found."))
		fmt.Println(noticeStyle.Render("Run 'madrasa ingest' first to load your textbooks."))
		fmt.Println(noticeStyle.Render(fmt.Sprintf("Your documents go in the %s/<subject>/ directories.", cfg.DataDir)))
		return fmt.Errorf("chat: %w", port.ErrNotIngested)
	}

	st, err := openStore()
	if errors.Is(err, port.ErrSchemaChanged) {
		fmt.Println(errorStyle.Render("Chunking parameters changed since the last ingest."))
		fmt.Println(noticeStyle.Render("Run 'madrasa ingest --reset' to rebuild the indexes."))
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to open chunk store: %w", err)
	}
	defer st.Close()

	semantic, err := openSemantic()
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Vector store ready: %d documents indexed", semantic.Count())))

	fmt.Println(noticeStyle.Render("[2/3] Building lexical indexes..."))
	lexical := newLexical()
	total, err := rebuildLexical(st, lexical)
	if err != nil {
		return fmt.Errorf("failed to build lexical indexes: %w", err)
	}
	if total == 0 {
		fmt.Println(errorStyle.Render("The index is empty."))
		fmt.Println(noticeStyle.Render("Run 'madrasa ingest' first to load your textbooks."))
		return fmt.Errorf("chat: %w", port.ErrNotIngested)
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Hybrid retriever ready: %d chunks across %d subjects", total, len(lexical.Subjects()))))

	fmt.Println(noticeStyle.Render("[3/3] Connecting to Ollama LLM..."))
	generator := llm.NewOllama(cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Temperature, cfg.Ollama.MaxTokens)
	if err := generator.Ping(ctx); err != nil {
		fmt.Println(noticeStyle.Render("⚠ Could not reach Ollama: " + err.Error()))
		fmt.Println(noticeStyle.Render("Make sure it is running: ollama serve"))
	} else {
		fmt.Println(successStyle.Render("✓ Ollama ready: " + cfg.Ollama.Model))
	}

	prompts, err := usecase.NewPrompts()
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}

	chat := usecase.NewChatUseCase(
		newFusedRetriever(lexical, semantic),
		generator,
		prompts,
		usecase.NewMemory(cfg.Memory.MaxInteractions),
		cfg.Retrieval.TopK,
		logger,
	)

	fmt.Println(successStyle.Render("✓ System ready!"))

	return chatLoop(ctx, chat)
}

func chatLoop(ctx context.Context, chat *usecase.ChatUseCase) error {
	in := bufio.NewScanner(os.Stdin)

	subject, ok := selectSubject(in)
	if !ok {
		return nil
	}
	mode, ok := selectMode(in)
	if !ok {
		return nil
	}
	printSessionHeader(subject, mode)

	for {
		if ctx.Err() != nil {
			fmt.Println(noticeStyle.Render("\nInterrupted. Goodbye!"))
			return ctx.Err()
		}

		fmt.Print(youStyle.Render("You:") + " ")
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		input := strings.TrimSpace(in.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Println(noticeStyle.Render("\nGoodbye! Happy studying! 📚"))
			return nil
		case "clear":
			chat.Memory().Clear()
			fmt.Println(noticeStyle.Render("✓ Conversation memory cleared."))
			fmt.Println()
			continue
		case "change":
			subject, ok = selectSubject(in)
			if !ok {
				return nil
			}
			mode, ok = selectMode(in)
			if !ok {
				return nil
			}
			chat.Memory().Clear()
			fmt.Println(noticeStyle.Render("✓ Subject and mode changed. Memory cleared."))
			printSessionHeader(subject, mode)
			continue
		}

		fmt.Println()
		fmt.Println(headerStyle.Render("[Retrieving relevant content...]"))
		sources, err := chat.Retrieve(ctx, input, subject)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println(noticeStyle.Render("\nInterrupted. Goodbye!"))
				return err
			}
			fmt.Println(errorStyle.Render("⚠ Retrieval failed: " + err.Error()))
			fmt.Println()
			continue
		}
		if len(sources) == 0 {
			fmt.Println(errorStyle.Render("⚠ No relevant content found for your query."))
			fmt.Println(noticeStyle.Render("Try rephrasing or asking about a different topic."))
			fmt.Println()
			continue
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Found %d relevant sources", len(sources))))
		fmt.Println()

		fmt.Print(botStyle.Render("Assistant:") + " ")
		_, genErr := chat.Respond(ctx, mode, input, sources, func(delta string) {
			fmt.Print(delta)
		})
		fmt.Println()
		if genErr != nil {
			if ctx.Err() != nil {
				fmt.Println(noticeStyle.Render("\nInterrupted. Goodbye!"))
				return genErr
			}
			fmt.Println(errorStyle.Render("Error generating response: " + genErr.Error()))
		}
		fmt.Println(memoryStyle.Render(fmt.Sprintf("[Memory: %d/%d conversations]", chat.Memory().Len(), chat.Memory().Cap())))
		fmt.Println()
	}
}

func selectSubject(in *bufio.Scanner) (string, bool) {
	fmt.Println()
	fmt.Println(rule())
	fmt.Println(headerStyle.Render("Available Subjects:"))
	fmt.Println(rule())
	for i, subject := range cfg.Subjects {
		fmt.Println(noticeStyle.Render(fmt.Sprintf("%d. %s", i+1, strings.ToUpper(subject))))
	}

	for {
		fmt.Printf("\nSelect subject (1-%d) or 'q' to quit: ", len(cfg.Subjects))
		if !in.Scan() {
			fmt.Println()
			return "", false
		}
		choice := strings.TrimSpace(in.Text())
		if strings.EqualFold(choice, "q") {
			fmt.Println(noticeStyle.Render("Goodbye!"))
			return "", false
		}
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(cfg.Subjects) {
			fmt.Println(errorStyle.Render("Invalid choice. Please try again."))
			continue
		}
		subject := cfg.Subjects[idx-1]
		fmt.Println(successStyle.Render("✓ Selected: " + strings.ToUpper(subject)))
		return subject, true
	}
}

func selectMode(in *bufio.Scanner) (domain.Mode, bool) {
	fmt.Println()
	fmt.Println(rule())
	fmt.Println(headerStyle.Render("Select Mode:"))
	fmt.Println(rule())
	fmt.Println(noticeStyle.Render("1. ASK - Ask questions and get answers"))
	fmt.Println(noticeStyle.Render("2. QUIZ - Generate practice quizzes"))
	fmt.Println(noticeStyle.Render("3. EXPLAIN - Get detailed explanations"))

	choices := map[string]domain.Mode{
		"1": domain.ModeAsk,
		"2": domain.ModeQuiz,
		"3": domain.ModeExplain,
	}
	names := map[domain.Mode]string{
		domain.ModeAsk:     "Q&A",
		domain.ModeQuiz:    "Quiz Generation",
		domain.ModeExplain: "Explanation",
	}

	for {
		fmt.Print("\nSelect mode (1-3): ")
		if !in.Scan() {
			fmt.Println()
			return "", false
		}
		choice := strings.TrimSpace(in.Text())
		if mode, ok := choices[choice]; ok {
			fmt.Println(successStyle.Render("✓ Mode: " + names[mode]))
			return mode, true
		}
		fmt.Println(errorStyle.Render("Invalid choice. Please enter 1, 2, or 3."))
	}
}

func printSessionHeader(subject string, mode domain.Mode) {
	fmt.Println()
	fmt.Println(rule())
	fmt.Println(headerStyle.Render("Chat Session Started"))
	fmt.Println(rule())
	fmt.Println(noticeStyle.Render("Subject: " + strings.ToUpper(subject)))
	fmt.Println(noticeStyle.Render("Mode: " + strings.ToUpper(string(mode))))
	fmt.Println(rule())
	fmt.Println("Type your message, or:")
	fmt.Println("  - 'clear' to clear conversation memory")
	fmt.Println("  - 'change' to switch subject/mode")
	fmt.Println("  - 'quit' to exit")
	fmt.Println(rule())
	fmt.Println()
}
