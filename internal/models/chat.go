// Package models defines the domain types for Ansuz.
package models

import "time"

// Source is one retrieved web document. Immutable once retrieved; the URL is
// the unique key for matching and dedup.
type Source struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// Citation is a resolved reference from an inline [n] marker in the answer to
// a source. Index is 1-based and matches the marker, so it always satisfies
// 1 <= Index <= len(sources) of the owning response.
type Citation struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// SearchResponse is one completed query/answer cycle. Sources keep provider
// order; Citations are derived from the answer text and the source list.
type SearchResponse struct {
	Query     string     `json:"query"`
	Answer    string     `json:"answer"`
	Sources   []Source   `json:"sources"`
	Citations []Citation `json:"citations"`
}

// ChatMessage is one turn within a chat, owned exclusively by its parent.
type ChatMessage struct {
	ID        string         `json:"id"`
	Query     string         `json:"query"`
	Response  SearchResponse `json:"response"`
	Timestamp time.Time      `json:"timestamp"`
}

// Chat is a conversation thread. Messages are append-only and chronological;
// UpdatedAt is bumped on every append. The title starts as a placeholder and
// is rewritten once after the first message resolves.
type Chat struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Turn is a prior (query, answer) pair used as conversational context when
// synthesizing a follow-up answer.
type Turn struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}
