package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/assistant"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *assistant.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Answer synthesis.
	r.Post("/answer", h.Answer)

	// Chat collection.
	r.Get("/chats", h.ListChats)
	r.Post("/chats", h.CreateChat)
	r.Delete("/chats", h.ClearChats)
	r.Get("/chats/current", h.GetCurrentChat)
	r.Put("/chats/current", h.SwitchChat)
	r.Get("/chats/{id}", h.GetChat)
	r.Delete("/chats/{id}", h.DeleteChat)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
