package chat

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers chat session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/v1/chat/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Post("/{id}/messages", h.SendMessage)
	})
}
