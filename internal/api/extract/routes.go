package extract

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers extraction routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/v1/extract", h.Extract)
}
