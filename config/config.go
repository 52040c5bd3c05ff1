package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the study assistant.
type Config struct {
	DataDir   string          `yaml:"data_dir" env:"MADRASA_DATA_DIR"`
	IndexDir  string          `yaml:"index_dir" env:"MADRASA_INDEX_DIR"`
	Subjects  []string        `yaml:"subjects" env:"MADRASA_SUBJECTS" envSeparator:","`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Extract   ExtractConfig   `yaml:"extract"`
	Memory    MemoryConfig    `yaml:"memory"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkingConfig holds chunking parameters. Changing any of them
// invalidates previously stored chunks.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	MinChunkLen  int `yaml:"min_chunk_len"`
}

// RetrievalConfig holds BM25 and fusion parameters.
type RetrievalConfig struct {
	TopK           int     `yaml:"top_k"`
	RRFK           int     `yaml:"rrf_k"`
	LexicalWeight  float64 `yaml:"lexical_weight"`
	SemanticWeight float64 `yaml:"semantic_weight"`
	K1             float64 `yaml:"k1"`
	B              float64 `yaml:"b"`
	CacheSize      int     `yaml:"cache_size"`
}

// EmbeddingConfig selects the embedding backend used by the vector
// index.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"` // "ollama" or "openai"
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url" env:"MADRASA_EMBED_BASE_URL"`
	APIKeyEnv string `yaml:"api_key_env"`
	// Concurrency bounds parallel embedding calls during ingestion.
	Concurrency int `yaml:"concurrency"`
}

// OllamaConfig holds generation model settings.
type OllamaConfig struct {
	BaseURL     string  `yaml:"base_url" env:"MADRASA_OLLAMA_URL"`
	Model       string  `yaml:"model" env:"MADRASA_OLLAMA_MODEL"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ExtractConfig holds text extraction and OCR settings.
type ExtractConfig struct {
	// Patterns are doublestar globs matched against file names inside
	// each subject directory.
	Patterns []string `yaml:"patterns"`
	// MinPageLen is the rune count under which an extracted page is
	// considered unusable and sent to OCR.
	MinPageLen int `yaml:"min_page_len"`
	// OCRSubjects always use OCR, regardless of extracted length.
	OCRSubjects  []string `yaml:"ocr_subjects"`
	OCRLanguages string   `yaml:"ocr_languages"`
	OCRDPI       int      `yaml:"ocr_dpi"`
}

// MemoryConfig bounds the conversation memory.
type MemoryConfig struct {
	MaxInteractions int `yaml:"max_interactions"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" env:"MADRASA_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  "data",
		IndexDir: "index",
		Subjects: []string{"arabic", "math", "chemistry", "biology", "english", "physics"},
		Chunking: ChunkingConfig{
			ChunkSize:    600,
			ChunkOverlap: 200,
			MinChunkLen:  50,
		},
		Retrieval: RetrievalConfig{
			TopK:           5,
			RRFK:           60,
			LexicalWeight:  0.4,
			SemanticWeight: 0.6,
			K1:             1.5,
			B:              0.75,
			CacheSize:      128,
		},
		Embedding: EmbeddingConfig{
			Provider:    "ollama",
			Model:       "nomic-embed-text",
			BaseURL:     "http://localhost:11434/api",
			APIKeyEnv:   "OPENAI_API_KEY",
			Concurrency: 4,
		},
		Ollama: OllamaConfig{
			BaseURL:     "http://localhost:11434",
			Model:       "llama3.1:8b",
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Extract: ExtractConfig{
			Patterns:     []string{"*.pdf", "*.txt", "*.md"},
			MinPageLen:   50,
			OCRSubjects:  []string{"arabic"},
			OCRLanguages: "ara+eng",
			OCRDPI:       200,
		},
		Memory: MemoryConfig{
			MaxInteractions: 3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, then applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// madrasa.yaml, then .madrasa/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "madrasa.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".madrasa", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return Load(filepath.Join(dir, "madrasa.yaml"))
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if len(c.Subjects) == 0 {
		return fmt.Errorf("config: subjects must not be empty")
	}
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("config: chunk_overlap must be in [0, chunk_size), got %d", c.Chunking.ChunkOverlap)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("config: top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.RRFK <= 0 {
		return fmt.Errorf("config: rrf_k must be positive, got %d", c.Retrieval.RRFK)
	}
	if c.Retrieval.LexicalWeight < 0 || c.Retrieval.SemanticWeight < 0 {
		return fmt.Errorf("config: fusion weights must not be negative")
	}
	if c.Retrieval.LexicalWeight == 0 && c.Retrieval.SemanticWeight == 0 {
		return fmt.Errorf("config: at least one fusion weight must be positive")
	}
	return nil
}

// SubjectDir returns the source directory for one subject.
func (c *Config) SubjectDir(subject string) string {
	return filepath.Join(c.DataDir, subject)
}

// StorePath returns the path of the chunk store database.
func (c *Config) StorePath() string {
	return filepath.Join(c.IndexDir, "chunks.db")
}

// VectorDir returns the directory of the persistent vector index.
func (c *Config) VectorDir() string {
	return filepath.Join(c.IndexDir, "vectors")
}

// EnsureDirs creates the data, subject and index directories. It
// returns the subject directories it had to create.
func (c *Config) EnsureDirs() ([]string, error) {
	var created []string
	for _, subject := range c.Subjects {
		dir := c.SubjectDir(subject)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			created = append(created, dir)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(c.IndexDir, 0755); err != nil {
		return nil, err
	}
	return created, nil
}

// HasSubject reports whether subject is configured.
func (c *Config) HasSubject(subject string) bool {
	for _, s := range c.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
