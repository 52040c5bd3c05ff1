package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"madrasa/internal/adapter/cleaner"
	"madrasa/internal/domain"
	"madrasa/internal/port"
)

// subjectWorkers bounds how many subjects ingest in parallel.
const subjectWorkers = 4

// ProgressFunc receives ingest progress: documents processed so far,
// the total planned, and the file just finished.
type ProgressFunc func(processed, total int, file string)

// IngestUseCase runs the full ingestion pipeline: list each subject's
// sources, extract and clean their text, chunk it, persist the chunks
// and feed both retrieval indexes.
type IngestUseCase struct {
	store      port.ChunkStore
	semantic   port.SemanticIndex
	lexical    port.LexicalIndex
	lister     port.SourceLister
	extractors map[string]port.Extractor
	cleaners   *cleaner.Registry
	chunker    port.Chunker
	log        *slog.Logger
}

func NewIngestUseCase(
	store port.ChunkStore,
	semantic port.SemanticIndex,
	lexical port.LexicalIndex,
	lister port.SourceLister,
	extractors map[string]port.Extractor,
	cleaners *cleaner.Registry,
	chunker port.Chunker,
	log *slog.Logger,
) *IngestUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &IngestUseCase{
		store:      store,
		semantic:   semantic,
		lexical:    lexical,
		lister:     lister,
		extractors: extractors,
		cleaners:   cleaners,
		chunker:    chunker,
		log:        log,
	}
}

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	Subjects []string
	DataDir  string
	// Reset clears the semantic collection, the chunk store and the
	// lexical indexes before ingesting.
	Reset    bool
	Progress ProgressFunc
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Subjects  []SubjectResult
	Documents int
	Chunks    int
	Failures  int
	Duration  time.Duration
}

// SubjectResult summarizes one subject partition of a run.
type SubjectResult struct {
	Subject   string
	Documents int
	Chunks    int
	Failed    int
}

// Run ingests every subject. Document failures are logged and counted;
// the subject continues. Store or semantic-index write failures abort
// the whole run.
func (u *IngestUseCase) Run(ctx context.Context, opts IngestOptions) (*IngestResult, error) {
	start := time.Now()

	if opts.Reset {
		if err := u.semantic.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset semantic index: %w", err)
		}
		if err := u.store.Reset(); err != nil {
			return nil, fmt.Errorf("reset chunk store: %w", err)
		}
		for _, subject := range opts.Subjects {
			u.lexical.Drop(subject)
		}
	}

	result := &IngestResult{Subjects: make([]SubjectResult, len(opts.Subjects))}
	pos := make(map[string]int, len(opts.Subjects))
	for i, subject := range opts.Subjects {
		result.Subjects[i].Subject = subject
		pos[subject] = i
	}

	type subjectPlan struct {
		subject string
		files   []string
	}
	var (
		plan  []subjectPlan
		total int
	)
	for _, subject := range opts.Subjects {
		if _, ok := u.extractors[subject]; !ok {
			return nil, fmt.Errorf("no extractor configured for subject %q", subject)
		}
		dir := filepath.Join(opts.DataDir, subject)
		files, err := u.lister.List(dir)
		if err != nil {
			u.log.Warn("subject directory not readable, skipping",
				"subject", subject, "dir", dir, "error", err)
			continue
		}
		if len(files) == 0 {
			u.log.Warn("no source documents, skipping subject",
				"subject", subject, "dir", dir)
			continue
		}
		plan = append(plan, subjectPlan{subject: subject, files: files})
		total += len(files)
	}

	var (
		mu        sync.Mutex
		processed atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(subjectWorkers)
	for _, sp := range plan {
		sp := sp
		g.Go(func() error {
			sr, err := u.ingestSubject(gctx, sp.subject, sp.files, total, &processed, opts.Progress)
			if err != nil {
				return err
			}
			mu.Lock()
			result.Subjects[pos[sp.subject]] = *sr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, sr := range result.Subjects {
		result.Documents += sr.Documents
		result.Chunks += sr.Chunks
		result.Failures += sr.Failed
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (u *IngestUseCase) ingestSubject(ctx context.Context, subject string, files []string, total int, processed *atomic.Int64, progress ProgressFunc) (*SubjectResult, error) {
	extract := u.extractors[subject]
	clean := u.cleaners.ForSubject(subject)
	sr := &SubjectResult{Subject: subject}

	var chunks []domain.Chunk
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docChunks, err := u.ingestDocument(ctx, subject, path, extract, clean)
		done := int(processed.Add(1))
		if progress != nil {
			progress(done, total, filepath.Base(path))
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			u.log.Warn("document failed, skipping",
				"subject", subject, "source", filepath.Base(path), "error", err)
			sr.Failed++
			continue
		}
		sr.Documents++
		sr.Chunks += len(docChunks)
		chunks = append(chunks, docChunks...)
	}

	if len(chunks) > 0 {
		if err := u.store.PutChunks(chunks); err != nil {
			return nil, fmt.Errorf("persist %s chunks: %w", subject, err)
		}
		if err := u.semantic.Index(ctx, chunks); err != nil {
			return nil, fmt.Errorf("index %s chunks: %w", subject, err)
		}
	}

	// The lexical index is built from the store, not from this run's
	// chunks, so an ingest on top of existing content still indexes the
	// whole partition in corpus order.
	stored, err := u.store.ChunksBySubject(subject)
	if err != nil {
		return nil, fmt.Errorf("load %s chunks: %w", subject, err)
	}
	if len(stored) > 0 {
		u.lexical.Build(subject, stored)
	}
	return sr, nil
}

func (u *IngestUseCase) ingestDocument(ctx context.Context, subject, path string, extract port.Extractor, clean port.Cleaner) ([]domain.Chunk, error) {
	pages, err := extract.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	var sb strings.Builder
	for _, page := range pages {
		sb.WriteByte('\n')
		sb.WriteString(page.Text)
	}
	text := clean.Clean(sb.String())

	chunks, err := u.chunker.Chunk(subject, filepath.Base(path), text)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	return chunks, nil
}
