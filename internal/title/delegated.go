package title

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/llm"
)

// Generator is the slice of the language-model client the delegated strategy
// needs.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Delegated asks the language model for a short title. It must not block the
// message-append path: callers run it from their own goroutine and apply the
// result as a later in-place update.
type Delegated struct {
	gen Generator
}

// NewDelegated creates a delegated title strategy.
func NewDelegated(gen Generator) *Delegated {
	return &Delegated{gen: gen}
}

const titleSystem = "You generate short titles for conversations. " +
	"Respond with the title only: at most six words, no quotes, no trailing punctuation."

// Title synthesizes a title for the query. The returned error is always
// recoverable: callers fall back to the local heuristic, which itself falls
// back to the truncated query.
func (d *Delegated) Title(ctx context.Context, query string) (string, error) {
	out, err := d.gen.Generate(ctx, llm.Request{
		System:      titleSystem,
		Prompt:      "Write a title for a conversation that starts with this question: " + query,
		MaxTokens:   24,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("title: generate: %w", err)
	}
	out = strings.Trim(strings.TrimSpace(out), `"`)
	if out == "" {
		return "", fmt.Errorf("title: empty completion")
	}
	return Truncate(out, maxLen), nil
}

// Fallback is the delegated strategy's standalone fallback: the first 50
// characters of the query.
func Fallback(query string) string {
	return Truncate(strings.TrimSpace(query), maxLen)
}
