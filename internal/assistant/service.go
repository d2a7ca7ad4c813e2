// Package assistant composes the answer pipeline with the conversation
// store: every completed exchange is appended to the active chat.
package assistant

import (
	"context"

	"github.com/starford/ansuz/internal/chatstore"
	"github.com/starford/ansuz/internal/models"
)

// Answerer is the slice of the orchestrator the service needs.
type Answerer interface {
	Answer(ctx context.Context, query string, priorTurns []models.Turn) (*models.SearchResponse, error)
}

// Service coordinates answer synthesis and conversation state.
type Service struct {
	orch  Answerer
	store *chatstore.Store
}

// NewService creates an assistant service.
func NewService(orch Answerer, store *chatstore.Store) *Service {
	return &Service{orch: orch, store: store}
}

// Ask answers query and records the exchange in the current chat. When the
// caller supplies no conversation context, prior turns are derived from the
// current chat. Validation and upstream errors propagate to the caller; the
// exchange is only recorded on success.
func (s *Service) Ask(ctx context.Context, query string, turns []models.Turn) (*models.SearchResponse, error) {
	if turns == nil {
		turns = s.store.RecentTurns(3)
	}

	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	resp, err := s.orch.Answer(ctx, query, turns)
	if err != nil {
		return nil, err
	}
	s.store.AddMessage(resp.Query, *resp)
	return resp, nil
}

// CreateChat allocates a new chat and makes it current.
func (s *Service) CreateChat(firstQueryHint string) string {
	return s.store.CreateChat(firstQueryHint)
}

// Chats lists all chats, most recent first.
func (s *Service) Chats() []models.Chat {
	return s.store.Chats()
}

// Chat returns one chat by id.
func (s *Service) Chat(id string) (*models.Chat, error) {
	return s.store.Chat(id)
}

// CurrentChat returns the active chat, or nil when there is none.
func (s *Service) CurrentChat() *models.Chat {
	return s.store.CurrentChat()
}

// SwitchChat repoints the active chat.
func (s *Service) SwitchChat(id string) {
	s.store.SwitchChat(id)
}

// DeleteChat removes a chat.
func (s *Service) DeleteChat(id string) {
	s.store.DeleteChat(id)
}

// ClearAll erases all chats and the durable slot.
func (s *Service) ClearAll() {
	s.store.ClearAll()
}
