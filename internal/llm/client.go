// Package llm wraps the chat-completion and embedding calls behind small
// methods with a retry-with-backoff policy. Everything above this package
// treats the model as an opaque function; failures that survive the retries
// surface as ErrUpstream and are never turned into fabricated answers.
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"docintel/internal/contextutil"
	"docintel/internal/service"
)

const defaultMaxRetries = 3

// ChatParams holds per-request generation parameters.
type ChatParams struct {
	// Temperature controls output randomness. Zero uses the server default.
	Temperature float32
	// MaxTokens bounds the generated length. Zero means no explicit limit.
	MaxTokens int
}

// Client talks to any OpenAI-compatible API (OpenAI, Groq, Ollama,
// llama.cpp) for chat completions and embeddings.
type Client struct {
	api          *openai.Client
	chatModel    string
	embedModel   string
	expectedSize int
	maxRetries   int
	retryBase    time.Duration
}

// NewClient creates an LLM client. baseURL selects the server (empty means
// the OpenAI default); expectedSize is the embedding dimensionality every
// returned vector is validated against (0 disables the check).
func NewClient(baseURL, apiKey, chatModel, embedModel string, expectedSize int) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:          openai.NewClientWithConfig(cfg),
		chatModel:    chatModel,
		embedModel:   embedModel,
		expectedSize: expectedSize,
		maxRetries:   defaultMaxRetries,
		retryBase:    time.Second,
	}
}

// Generate sends a system + user prompt pair and returns the completion text.
// Transient failures are retried with exponential backoff; once the attempts
// are exhausted the error matches service.ErrUpstream.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string, params ChatParams) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("no choices returned: %w", service.ErrUpstream)
			}
			return resp.Choices[0].Message.Content, nil
		}

		lastErr = err
		logger.WarnContext(ctx, "chat completion failed", "attempt", attempt, "error", err)
		if attempt < c.maxRetries {
			if err := c.wait(ctx, attempt); err != nil {
				return "", err
			}
		}
	}

	return "", fmt.Errorf("chat completion failed after %d attempts: %v: %w", c.maxRetries, lastErr, service.ErrUpstream)
}

// EmbedTexts embeds a batch of texts, one vector per input, in input order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(texts) == 0 {
		return nil, service.WrapError(service.ErrInvalidInput, "empty input array")
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embedModel),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		var err error
		resp, err = c.api.CreateEmbeddings(ctx, req)
		if err == nil {
			lastErr = nil
			break
		}

		lastErr = err
		logger.WarnContext(ctx, "embedding request failed", "attempt", attempt, "error", err)
		if attempt < c.maxRetries {
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("embedding failed after %d attempts: %v: %w", c.maxRetries, lastErr, service.ErrUpstream)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d: %w", len(texts), len(resp.Data), service.ErrUpstream)
	}

	result := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		if c.expectedSize > 0 && len(data.Embedding) != c.expectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d: %w", i, len(data.Embedding), c.expectedSize, service.ErrUpstream)
		}
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[i] = vec
	}

	return result, nil
}

// EmbedText embeds a single text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// wait sleeps for the exponential backoff interval, aborting early when the
// context is canceled.
func (c *Client) wait(ctx context.Context, attempt int) error {
	delay := c.retryBase << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
