package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// TOC scopes.
const (
	TOCScopeAll = "all"
	TOCScopeRun = "run"
)

// Config is the immutable run configuration handed to every component.
type Config struct {
	// Paths
	InputDir     string
	OutputDir    string
	Pattern      string
	TOCFile      string
	ProgressFile string
	ProcessLog   string

	// Chunking and triage
	ChunkThreshold int
	MinChunkLength int
	TrivialLimit   int
	DefaultTags    []string

	// Worker pool
	WorkerCount int
	TOCScope    string

	// Model gateway
	LLMProvider     string
	LLMURL          string
	LLMAPIKey       string
	LLMModel        string
	LLMTimeout      time.Duration
	LLMSystemPrompt string
	LLMRawPrompt    bool

	// HTTP surface
	Port           string
	APIKey         string
	RunTTL         time.Duration
	MaxUploadBytes int64

	// Logging
	LogLevel string
	LogJSON  bool

	// PDF
	PDFFallbackPdftotext bool
}

const (
	defaultOllamaURL = "http://localhost:11434/api/generate"
	defaultOpenAIURL = "http://localhost:11434/v1"
)

// Load reads .env (if present) and CHAT2MD_* variables.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		InputDir:     envOr("CHAT2MD_INPUT_DIR", "ChatGPT"),
		OutputDir:    envOr("CHAT2MD_OUTPUT_DIR", "ChatGPT_Sorted"),
		Pattern:      envOr("CHAT2MD_PATTERN", "*.md"),
		TOCFile:      envOr("CHAT2MD_TOC_FILE", "index.toc.md"),
		ProgressFile: envOr("CHAT2MD_PROGRESS_FILE", "ProcessedSourceChats.jsonl"),
		ProcessLog:   envOr("CHAT2MD_PROCESS_LOG", "process.log"),

		ChunkThreshold: envInt("CHAT2MD_CHUNK_THRESHOLD", 24000),
		MinChunkLength: envInt("CHAT2MD_MIN_CHUNK_LENGTH", 100),
		TrivialLimit:   envInt("CHAT2MD_TRIVIAL_LIMIT", 5000),
		DefaultTags:    envList("CHAT2MD_DEFAULT_TAGS", []string{"chatgpt", "reference", "obsidian"}),

		WorkerCount: envInt("CHAT2MD_WORKERS", 1),
		TOCScope:    strings.ToLower(envOr("CHAT2MD_TOC_SCOPE", TOCScopeAll)),

		LLMProvider:     strings.ToLower(envOr("CHAT2MD_LLM_PROVIDER", "ollama")),
		LLMURL:          os.Getenv("CHAT2MD_LLM_URL"),
		LLMAPIKey:       os.Getenv("CHAT2MD_LLM_API_KEY"),
		LLMModel:        envOr("CHAT2MD_LLM_MODEL", "qwen3-mdextractor"),
		LLMTimeout:      envDuration("CHAT2MD_LLM_TIMEOUT", 600*time.Second),
		LLMSystemPrompt: os.Getenv("CHAT2MD_LLM_SYSTEM_PROMPT"),
		LLMRawPrompt:    envBool("CHAT2MD_LLM_RAW_PROMPT", false),

		Port:           envOr("CHAT2MD_PORT", "8091"),
		APIKey:         os.Getenv("CHAT2MD_API_KEY"),
		RunTTL:         envDuration("CHAT2MD_RUN_TTL", time.Hour),
		MaxUploadBytes: envInt64("CHAT2MD_MAX_UPLOAD_BYTES", 52428800), // 50MB

		LogLevel: envOr("CHAT2MD_LOG_LEVEL", "info"),
		LogJSON:  envBool("CHAT2MD_LOG_JSON", false),

		PDFFallbackPdftotext: envBool("CHAT2MD_PDF_FALLBACK_PDFTOTEXT", true),
	}
	return cfg.Normalize()
}

// Normalize replaces non-positive numbers with defaults and fills the
// provider-specific model URL. Flag overrides call it again.
func (c Config) Normalize() Config {
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = 24000
	}
	if c.MinChunkLength <= 0 {
		c.MinChunkLength = 100
	}
	if c.TrivialLimit <= 0 {
		c.TrivialLimit = 5000
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = 600 * time.Second
	}
	if c.RunTTL <= 0 {
		c.RunTTL = time.Hour
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.LLMURL == "" {
		if c.LLMProvider == "openai" {
			c.LLMURL = defaultOpenAIURL
		} else {
			c.LLMURL = defaultOllamaURL
		}
	}
	return c
}

func (c Config) Validate() error {
	var errs []error
	if c.InputDir == "" {
		errs = append(errs, errors.New("input directory is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Pattern == "" {
		errs = append(errs, errors.New("file pattern is required"))
	}
	if c.MinChunkLength > c.TrivialLimit {
		errs = append(errs, fmt.Errorf("min chunk length %d exceeds trivial limit %d", c.MinChunkLength, c.TrivialLimit))
	}
	if c.TOCScope != TOCScopeAll && c.TOCScope != TOCScopeRun {
		errs = append(errs, fmt.Errorf("toc scope must be %q or %q, got %q", TOCScopeAll, TOCScopeRun, c.TOCScope))
	}
	if c.LLMProvider != "ollama" && c.LLMProvider != "openai" {
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLMProvider))
	}
	if c.LLMModel == "" {
		errs = append(errs, errors.New("llm model is required"))
	}
	return errors.Join(errs...)
}

// ProgressPath resolves the ledger file against the output directory.
func (c Config) ProgressPath() string { return c.resolve(c.ProgressFile) }

// ProcessLogPath resolves the process log against the output directory.
func (c Config) ProcessLogPath() string { return c.resolve(c.ProcessLog) }

// SystemPrompt returns the instructions sent with each chunk, or "" to send
// chunks verbatim.
func (c Config) SystemPrompt(fallback string) string {
	if c.LLMRawPrompt {
		return ""
	}
	if c.LLMSystemPrompt != "" {
		return c.LLMSystemPrompt
	}
	return fallback
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
