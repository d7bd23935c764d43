package llm

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// OllamaClient calls Ollama's /api/generate endpoint with streaming disabled.
type OllamaClient struct {
	client *resty.Client
	url    string
	model  string
	system string
}

func NewOllamaClient(cfg Config) *OllamaClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &OllamaClient{
		client: client,
		url:    cfg.URL,
		model:  cfg.Model,
		system: cfg.SystemPrompt,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate sends one non-streaming generate request.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:  c.model,
			Prompt: prompt,
			System: c.system,
			Stream: false,
		}).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama error: %s", out.Error)
	}
	return out.Response, nil
}

func (c *OllamaClient) Model() string {
	return c.model
}

// Close releases idle connections.
func (c *OllamaClient) Close() {
	c.client.GetClient().CloseIdleConnections()
}
