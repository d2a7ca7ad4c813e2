// Package llm wraps the language-model provider behind a small generation
// interface with classified upstream errors.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/starford/ansuz/internal/apperr"
)

// Request describes one generation call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Client issues chat-completion requests against an OpenAI-compatible API.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a generation client. baseURL may be empty to use the provider
// default endpoint.
func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Generate performs a single blocking completion round trip. There is no
// internal retry; failures surface immediately, classified into the apperr
// taxonomy for user messaging.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty completion: %w", apperr.ErrUpstream)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classify maps provider and transport errors onto the apperr taxonomy so
// callers can distinguish quota, credential, and connectivity failures.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("llm: %s: %w", apiErr.Message, apperr.ErrQuotaExceeded)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("llm: %s: %w", apiErr.Message, apperr.ErrInvalidCredentials)
		default:
			return fmt.Errorf("llm: status %d: %w", apiErr.HTTPStatusCode, apperr.ErrUpstream)
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("llm: %v: %w", err, apperr.ErrUpstreamTimeout)
	}
	return fmt.Errorf("llm: %v: %w", err, apperr.ErrUpstream)
}
