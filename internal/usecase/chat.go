package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"madrasa/internal/domain"
	"madrasa/internal/port"
)

// generationApology is surfaced as the answer when generation fails.
const generationApology = "عذراً، حدث خطأ في توليد الإجابة. / Sorry, an error occurred generating the response."

// ChatUseCase answers student queries: hybrid retrieval over the
// chosen subject, prompt assembly with conversation history, then
// generation. One instance carries one conversation's memory.
type ChatUseCase struct {
	retriever port.FusedRetriever
	generator port.Generator
	prompts   *Prompts
	memory    *Memory
	topK      int
	log       *slog.Logger
}

func NewChatUseCase(
	retriever port.FusedRetriever,
	generator port.Generator,
	prompts *Prompts,
	memory *Memory,
	topK int,
	log *slog.Logger,
) *ChatUseCase {
	if topK <= 0 {
		topK = 5
	}
	if log == nil {
		log = slog.Default()
	}
	return &ChatUseCase{
		retriever: retriever,
		generator: generator,
		prompts:   prompts,
		memory:    memory,
		topK:      topK,
		log:       log,
	}
}

// Memory exposes the conversation memory for the chat loop's clear and
// status commands.
func (u *ChatUseCase) Memory() *Memory {
	return u.memory
}

// Retrieve runs the hybrid retriever over one subject partition.
func (u *ChatUseCase) Retrieve(ctx context.Context, query, subject string) ([]domain.FusedChunk, error) {
	return u.retriever.Search(ctx, query, subject, u.topK)
}

// Respond generates the answer for query over the retrieved sources.
// With a non-nil onDelta the response is streamed and each text
// fragment passed to it as it arrives; otherwise generation blocks.
// The exchange is recorded in memory, a failed generation as a
// bilingual apology carrying the error. The returned error reports
// that failure so the caller can display it; the conversation goes on.
func (u *ChatUseCase) Respond(ctx context.Context, mode domain.Mode, query string, sources []domain.FusedChunk, onDelta func(string)) (string, error) {
	prompt, err := u.prompts.Build(mode, query, u.memory.History(), sources)
	if err != nil {
		return "", err
	}

	answer, err := u.generate(ctx, prompt, onDelta)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		u.log.Warn("generation failed", "mode", mode, "error", err)
		answer = fmt.Sprintf("%s\n\nError: %v", generationApology, err)
	}
	u.memory.Add(query, answer)
	return answer, err
}

func (u *ChatUseCase) generate(ctx context.Context, prompt string, onDelta func(string)) (string, error) {
	if onDelta == nil {
		return u.generator.Generate(ctx, prompt)
	}

	segments, err := u.generator.GenerateStream(ctx, prompt)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for seg := range segments {
		if seg.Err != nil {
			return "", seg.Err
		}
		sb.WriteString(seg.Text)
		onDelta(seg.Text)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
