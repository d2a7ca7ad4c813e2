// Package answer implements the answer-synthesis pipeline: retrieval, prompt
// assembly, generation, and citation resolution.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/citation"
	"github.com/starford/ansuz/internal/llm"
	"github.com/starford/ansuz/internal/models"
)

// Fixed retrieval and generation bounds.
const (
	maxSearchResults = 8
	maxAnswerTokens  = 1024
	// Low temperature favors factual consistency over creativity.
	answerTemperature = 0.2
)

// Searcher is the slice of the retrieval client the orchestrator needs.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.Source, error)
}

// Generator is the slice of the generation client the orchestrator needs.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// Orchestrator runs one query through retrieval, synthesis, and citation
// extraction.
type Orchestrator struct {
	searcher Searcher
	gen      Generator
}

// New creates an orchestrator.
func New(searcher Searcher, gen Generator) *Orchestrator {
	return &Orchestrator{searcher: searcher, gen: gen}
}

// Answer produces a complete cited response for query, optionally grounded in
// prior conversation turns. It returns either a fully populated response or
// an error; no partial result is ever observable.
func (o *Orchestrator) Answer(ctx context.Context, query string, priorTurns []models.Turn) (*models.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("answer: empty query: %w", apperr.ErrInvalidInput)
	}

	sources, err := o.searcher.Search(ctx, query, maxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("answer: retrieval: %w", err)
	}

	text, err := o.gen.Generate(ctx, llm.Request{
		System:      systemInstruction(priorTurns),
		Prompt:      buildPrompt(query, priorTurns, sources),
		MaxTokens:   maxAnswerTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("answer: generation: %w", err)
	}

	return &models.SearchResponse{
		Query:     query,
		Answer:    text,
		Sources:   sources,
		Citations: citation.Extract(text, sources),
	}, nil
}
