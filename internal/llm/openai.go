package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint,
// including Ollama's /v1 API.
type OpenAIClient struct {
	client     *openai.Client
	httpClient *http.Client
	model      string
	system     string
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.URL != "" {
		clientCfg.BaseURL = cfg.URL
	}
	clientCfg.HTTPClient = httpClient
	return &OpenAIClient{
		client:     openai.NewClientWithConfig(clientCfg),
		httpClient: httpClient,
		model:      cfg.Model,
		system:     cfg.SystemPrompt,
	}
}

// Generate sends one non-streaming chat completion.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if c.system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Model() string {
	return c.model
}

// Close releases idle connections.
func (c *OpenAIClient) Close() {
	c.httpClient.CloseIdleConnections()
}
