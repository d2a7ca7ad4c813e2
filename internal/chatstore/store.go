// Package chatstore owns the in-memory chat collection and its durable
// mirror.
//
// Concurrency model: a single mutex guards the state; every public operation
// is a read-modify-persist cycle that is atomic from the caller's point of
// view. The asynchronous title rewrite re-enters through the same mutex and
// targets its chat by identifier, so it is a no-op when the chat has been
// deleted in the meantime.
package chatstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/title"
)

// Titles placeholder states.
const (
	defaultTitle    = "New chat"
	pendingTitle    = "Generating title..."
	maxTitleHintLen = 50
)

// TitleSource produces a synthesized chat title for a query. Implementations
// may block; the store always calls it from its own goroutine.
type TitleSource interface {
	Title(ctx context.Context, query string) (string, error)
}

// EventFunc receives store change notifications: kind is one of "created",
// "updated", "deleted", "cleared", "title". Implementations must not call
// back into the store and must not block.
type EventFunc func(kind, chatID string)

// Store owns the chat collection, the current-chat pointer, and persistence.
type Store struct {
	slot    storage.Slot
	titles  TitleSource
	onEvent EventFunc

	mu        sync.Mutex
	chats     []models.Chat
	currentID string
	loading   bool

	// wg tracks in-flight title rewrites so tests and shutdown can drain them.
	wg sync.WaitGroup
}

// New creates a store persisting into slot. titles may be nil, in which case
// first-message titles come from the local heuristic only. onEvent may be nil.
func New(slot storage.Slot, titles TitleSource, onEvent EventFunc) *Store {
	return &Store{
		slot:    slot,
		titles:  titles,
		onEvent: onEvent,
		chats:   []models.Chat{},
	}
}

// Load hydrates the store from the durable slot. Called once at startup.
// A missing or malformed snapshot yields an empty collection; hydration is
// never fatal.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.slot.Load()
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			slog.Warn("chat history load failed, starting empty", slog.String("error", err.Error()))
		}
		return
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		slog.Warn("chat history snapshot malformed, starting empty", slog.String("error", err.Error()))
		return
	}

	s.chats = snap.Chats
	s.currentID = snap.CurrentChatID
	if s.currentID != "" && s.findLocked(s.currentID) == nil {
		s.currentID = ""
	}
}

// CreateChat allocates a new chat with a placeholder title, makes it current,
// and returns its id. It never fails; a missing hint yields a generic
// placeholder.
func (s *Store) CreateChat(firstQueryHint string) string {
	s.mu.Lock()
	id := s.createLocked(firstQueryHint)
	s.persistLocked()
	s.mu.Unlock()

	s.emit("created", id)
	return id
}

// createLocked allocates and prepends a chat. Callers hold the mutex.
func (s *Store) createLocked(firstQueryHint string) string {
	t := defaultTitle
	if firstQueryHint != "" {
		t = title.Truncate(firstQueryHint, maxTitleHintLen)
	}
	now := time.Now()
	chat := models.Chat{
		ID:        uuid.NewString(),
		Title:     t,
		Messages:  []models.ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.chats = append([]models.Chat{chat}, s.chats...)
	s.currentID = chat.ID
	return chat.ID
}

// AddMessage appends a completed query/response turn to the current chat,
// creating one when the current pointer is missing or stale. On the chat's
// first message a transient title is set synchronously and the synthesized
// title is requested in the background, applied later by identifier.
func (s *Store) AddMessage(query string, resp models.SearchResponse) {
	s.mu.Lock()

	chat := s.findLocked(s.currentID)
	var createdID string
	if chat == nil {
		createdID = s.createLocked(query)
		chat = s.findLocked(createdID)
	}

	now := time.Now()
	chat.Messages = append(chat.Messages, models.ChatMessage{
		ID:        uuid.NewString(),
		Query:     query,
		Response:  resp,
		Timestamp: now,
	})
	chat.UpdatedAt = now

	first := len(chat.Messages) == 1
	chatID := chat.ID
	if first {
		chat.Title = pendingTitle
	}
	s.persistLocked()
	s.mu.Unlock()

	if createdID != "" {
		s.emit("created", createdID)
	}
	s.emit("updated", chatID)

	if first {
		s.wg.Add(1)
		go s.resolveTitle(chatID, query, resp.Answer)
	}
}

// resolveTitle runs the delegated strategy and applies the result in place.
// The rewrite targets the chat by id, never by position: the list order may
// have changed by the time synthesis resolves.
func (s *Store) resolveTitle(chatID, query, answer string) {
	defer s.wg.Done()

	var t string
	if s.titles != nil {
		got, err := s.titles.Title(context.Background(), query)
		if err == nil {
			t = got
		} else {
			slog.Debug("delegated title failed, using heuristic",
				slog.String("chat_id", chatID), slog.String("error", err.Error()))
		}
	}
	if t == "" {
		t = title.Heuristic(query, answer)
	}

	s.mu.Lock()
	chat := s.findLocked(chatID)
	if chat == nil {
		// Chat deleted before synthesis resolved; drop the title.
		s.mu.Unlock()
		return
	}
	chat.Title = t
	s.persistLocked()
	s.mu.Unlock()

	s.emit("title", chatID)
}

// SwitchChat repoints the current chat. Pointing at a nonexistent id is
// permitted and simply yields no current chat on lookup.
func (s *Store) SwitchChat(chatID string) {
	s.mu.Lock()
	s.currentID = chatID
	s.persistLocked()
	s.mu.Unlock()
}

// DeleteChat removes a chat. If it was current, the first remaining chat
// becomes current, or none when the list is empty.
func (s *Store) DeleteChat(chatID string) {
	s.mu.Lock()
	kept := s.chats[:0]
	removed := false
	for _, c := range s.chats {
		if c.ID == chatID {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.chats = kept
	if removed && s.currentID == chatID {
		if len(s.chats) > 0 {
			s.currentID = s.chats[0].ID
		} else {
			s.currentID = ""
		}
	}
	if removed {
		s.persistLocked()
	}
	s.mu.Unlock()

	if removed {
		s.emit("deleted", chatID)
	}
}

// ClearAll resets to empty state and erases the durable slot.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.chats = []models.Chat{}
	s.currentID = ""
	if err := s.slot.Clear(); err != nil {
		slog.Warn("chat history clear failed", slog.String("error", err.Error()))
	}
	s.mu.Unlock()

	s.emit("cleared", "")
}

// CurrentChat returns a copy of the current chat, or nil when there is none.
func (s *Store) CurrentChat() *models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.findLocked(s.currentID)
	if chat == nil {
		return nil
	}
	cp := copyChat(*chat)
	return &cp
}

// Chat returns a copy of the chat with the given id.
func (s *Store) Chat(chatID string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.findLocked(chatID)
	if chat == nil {
		return nil, apperr.ErrNotFound
	}
	cp := copyChat(*chat)
	return &cp, nil
}

// Chats returns a copy of the full chat list, newest-created-or-updated
// first.
func (s *Store) Chats() []models.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = copyChat(c)
	}
	return out
}

// RecentTurns returns up to limit prior (query, answer) pairs from the
// current chat, oldest first, for use as conversational context.
func (s *Store) RecentTurns(limit int) []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat := s.findLocked(s.currentID)
	if chat == nil || len(chat.Messages) == 0 {
		return nil
	}
	msgs := chat.Messages
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	turns := make([]models.Turn, len(msgs))
	for i, m := range msgs {
		turns[i] = models.Turn{Query: m.Query, Answer: m.Response.Answer}
	}
	return turns
}

// SetLoading records the presentation loading hint.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Loading reports the presentation loading hint.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Wait blocks until all in-flight title rewrites have completed.
func (s *Store) Wait() {
	s.wg.Wait()
}

// findLocked returns a pointer into the chat slice. Callers hold the mutex.
func (s *Store) findLocked(chatID string) *models.Chat {
	if chatID == "" {
		return nil
	}
	for i := range s.chats {
		if s.chats[i].ID == chatID {
			return &s.chats[i]
		}
	}
	return nil
}

// persistLocked re-serializes the full collection into the durable slot.
// Failures degrade: they are logged and never block the in-memory operation.
func (s *Store) persistLocked() {
	data, err := encodeSnapshot(s.chats, s.currentID)
	if err != nil {
		slog.Warn("chat history encode failed", slog.String("error", err.Error()))
		return
	}
	if err := s.slot.Save(data); err != nil {
		slog.Warn("chat history persist failed", slog.String("error", err.Error()))
	}
}

func (s *Store) emit(kind, chatID string) {
	if s.onEvent != nil {
		s.onEvent(kind, chatID)
	}
}

func copyChat(c models.Chat) models.Chat {
	msgs := make([]models.ChatMessage, len(c.Messages))
	copy(msgs, c.Messages)
	c.Messages = msgs
	return c
}
