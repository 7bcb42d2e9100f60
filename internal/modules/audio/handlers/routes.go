package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the audio route
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audio", h.HandleGetAudio)
}
