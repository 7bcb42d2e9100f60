package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the social routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/influencers/{id}", h.HandleGetInfluencers)
	r.Get("/feeds/{id}", h.HandleGetFeed)
	r.Get("/news/{id}", h.HandleGetNews)
	r.Get("/ai-summary/{id}", h.HandleGetSummary)
	r.Get("/social-dominance/{id}", h.HandleGetSocialDominance)
}
