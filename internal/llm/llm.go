package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Provider names accepted by New.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config selects and configures a Generator.
type Config struct {
	Provider     string
	URL          string
	APIKey       string
	Model        string
	SystemPrompt string // Empty sends the chunk with no system instructions.
	Timeout      time.Duration
}

// New builds the Generator for cfg.Provider.
func New(cfg Config) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama, "":
		return NewOllamaClient(cfg), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}

// APIError is a non-success response from a model endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api status %d: %s", e.StatusCode, truncate(e.Body, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
