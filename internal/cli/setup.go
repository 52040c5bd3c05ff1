package cli

import (
	"fmt"
	"os"

	"madrasa/internal/adapter/analyzer"
	"madrasa/internal/adapter/cache"
	"madrasa/internal/adapter/embedding"
	"madrasa/internal/adapter/extractor"
	"madrasa/internal/adapter/retriever"
	"madrasa/internal/adapter/store"
	"madrasa/internal/adapter/vectorstore"
	"madrasa/internal/port"
)

// openStore opens the chunk store, stamped with the current chunking
// parameters so a parameter change surfaces as port.ErrSchemaChanged.
func openStore() (*store.Bolt, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	stamp := store.NewStamp(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap, cfg.Chunking.MinChunkLen)
	return store.Open(cfg.StorePath(), stamp)
}

// openSemantic opens the persistent vector collection with the
// configured embedding provider.
func openSemantic() (*vectorstore.Store, error) {
	embed, err := embedding.New(cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.BaseURL, cfg.Embedding.APIKeyEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return vectorstore.New(cfg.VectorDir(), embed, cfg.Embedding.Concurrency)
}

func newLexical() *retriever.BM25 {
	return retriever.NewBM25(analyzer.NewTokenizer(), cfg.Retrieval.K1, cfg.Retrieval.B)
}

// newFusedRetriever stacks RRF fusion over the lexical and semantic
// retrievers and fronts it with the result cache. Cache entries are
// keyed to the lexical generation, so a rebuild invalidates them.
func newFusedRetriever(lexical *retriever.BM25, semantic *vectorstore.Store) port.FusedRetriever {
	hybrid := retriever.NewHybrid(lexical, semantic, cfg.Retrieval.RRFK, cfg.Retrieval.LexicalWeight, cfg.Retrieval.SemanticWeight, logger)
	results := cache.NewResultCache(cfg.Retrieval.CacheSize, 0, lexical.Generation)
	return cache.NewCachedRetriever(hybrid, results)
}

// rebuildLexical loads every stored subject partition into the BM25
// manager. Returns the number of chunks indexed.
func rebuildLexical(st *store.Bolt, lexical *retriever.BM25) (int, error) {
	subjects, err := st.Subjects()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, subject := range subjects {
		chunks, err := st.ChunksBySubject(subject)
		if err != nil {
			return 0, fmt.Errorf("failed to load %s chunks: %w", subject, err)
		}
		if len(chunks) == 0 {
			continue
		}
		lexical.Build(subject, chunks)
		total += len(chunks)
	}
	return total, nil
}

// newExtractors builds one extractor per subject. Subjects listed in
// extract.ocr_subjects force OCR with the configured languages; the
// rest fall back to English OCR only when a page has too little
// native text.
func newExtractors() map[string]port.Extractor {
	force := make(map[string]bool, len(cfg.Extract.OCRSubjects))
	for _, subject := range cfg.Extract.OCRSubjects {
		force[subject] = true
	}

	ocrErr := extractor.NewOCR(cfg.Extract.OCRLanguages, cfg.Extract.OCRDPI).Available()
	if ocrErr != nil {
		logger.Warn("ocr tools not found, scanned pages will keep their native text",
			"error", ocrErr)
	}

	extractors := make(map[string]port.Extractor, len(cfg.Subjects))
	for _, subject := range cfg.Subjects {
		var ocr *extractor.OCR
		if ocrErr == nil {
			languages := "eng"
			if force[subject] {
				languages = cfg.Extract.OCRLanguages
			}
			ocr = extractor.NewOCR(languages, cfg.Extract.OCRDPI)
		}
		pdf := extractor.NewPDF(ocr, force[subject], cfg.Extract.MinPageLen, logger)
		extractors[subject] = extractor.NewDispatcher(pdf)
	}
	return extractors
}
