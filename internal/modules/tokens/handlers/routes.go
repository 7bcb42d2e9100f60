package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the token routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/coingecko/token/{id}", h.HandleGetTokenChart)
	r.Get("/coin/{id}", h.HandleGetCoin)

	// Path kept for the dashboard's social analytics screen
	r.Get("/test/lunarcrush-coins-v2", h.HandleGetSocialAnalytics)
}
