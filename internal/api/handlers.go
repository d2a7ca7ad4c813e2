package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/assistant"
)

// Handler holds API route handlers.
type Handler struct {
	svc *assistant.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *assistant.Service) *Handler {
	return &Handler{svc: svc}
}

// Answer handles POST /answer: one query through retrieval, synthesis, and
// history append.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	resp, err := h.svc.Ask(r.Context(), req.Query, req.ConversationContext)
	if err != nil {
		writeAnswerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeAnswerError maps the error taxonomy onto HTTP status classes:
// bad input is 4xx, upstream failures get their distinguishing statuses.
func writeAnswerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody("query must not be empty"))
	case errors.Is(err, apperr.ErrQuotaExceeded):
		writeJSON(w, http.StatusTooManyRequests,
			errorBodyDetails("search provider quota exceeded, try again later", err.Error()))
	case errors.Is(err, apperr.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized,
			errorBodyDetails("upstream credentials rejected, check API keys", err.Error()))
	case errors.Is(err, apperr.ErrUpstreamTimeout):
		writeJSON(w, http.StatusServiceUnavailable,
			errorBodyDetails("upstream request timed out, resubmit to retry", err.Error()))
	default:
		slog.Error("answer failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway,
			errorBodyDetails("upstream service failed, resubmit to retry", err.Error()))
	}
}

// ListChats handles GET /chats.
func (h *Handler) ListChats(w http.ResponseWriter, _ *http.Request) {
	chats := h.svc.Chats()
	items := make([]ChatListItem, len(chats))
	for i, c := range chats {
		items[i] = ChatListItem{
			ID:           c.ID,
			Title:        c.Title,
			MessageCount: len(c.Messages),
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}
	}
	resp := ChatListResponse{Chats: items}
	if cur := h.svc.CurrentChat(); cur != nil {
		resp.Current = cur.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateChat handles POST /chats.
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateChatRequest
	// An empty body is fine: the hint is optional.
	_ = json.NewDecoder(r.Body).Decode(&req)

	id := h.svc.CreateChat(req.FirstQuery)
	writeJSON(w, http.StatusCreated, CreateChatResponse{ID: id})
}

// GetChat handles GET /chats/{id}.
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	chat, err := h.svc.Chat(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get chat failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// DeleteChat handles DELETE /chats/{id}. Deleting an unknown id is a no-op.
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	h.svc.DeleteChat(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearChats handles DELETE /chats.
func (h *Handler) ClearChats(w http.ResponseWriter, _ *http.Request) {
	h.svc.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentChat handles GET /chats/current.
func (h *Handler) GetCurrentChat(w http.ResponseWriter, _ *http.Request) {
	chat := h.svc.CurrentChat()
	if chat == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no current chat"))
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// SwitchChat handles PUT /chats/current. Pointing at an unknown id is
// permitted; lookups then yield no current chat.
func (h *Handler) SwitchChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SwitchChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}
	h.svc.SwitchChat(req.ID)
	w.WriteHeader(http.StatusNoContent)
}
