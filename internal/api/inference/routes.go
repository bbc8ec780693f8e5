package inference

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers model routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/v1/embeddings", h.Embeddings)
	r.Post("/v1/retrieve", h.Retrieve)
	r.Post("/v1/rerank", h.Rerank)
}
