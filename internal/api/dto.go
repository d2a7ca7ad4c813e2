package api

import (
	"time"

	"github.com/starford/ansuz/internal/models"
)

// AnswerRequest is the request body for POST /answer.
type AnswerRequest struct {
	Query string `json:"query"`
	// ConversationContext optionally overrides the prior turns derived from
	// the current chat. Nil means "derive"; empty means "single-shot".
	ConversationContext []models.Turn `json:"conversation_context,omitempty"`
}

// AnswerResponse is the response body for POST /answer (aliased from the
// domain layer).
type AnswerResponse = models.SearchResponse

// CreateChatRequest is the request body for POST /chats.
type CreateChatRequest struct {
	FirstQuery string `json:"first_query,omitempty"`
}

// CreateChatResponse is returned after a chat is created.
type CreateChatResponse struct {
	ID string `json:"id"`
}

// ChatListItem is a lightweight item in the chat list response.
type ChatListItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ChatListResponse wraps the chat list.
type ChatListResponse struct {
	Chats   []ChatListItem `json:"chats"`
	Current string         `json:"current_chat_id,omitempty"`
}

// SwitchChatRequest is the request body for PUT /chats/current.
type SwitchChatRequest struct {
	ID string `json:"id"`
}
