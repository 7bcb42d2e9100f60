package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the markets routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/bonk/markets/enhanced", h.HandleGetEnhancedMarkets)
}
