package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the search route
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.HandleSearch)
}
