// Package handlers provides HTTP handlers for the markets venue table.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/bonkdash/internal/modules/markets"
	"github.com/rs/zerolog"
)

// Handler handles markets HTTP requests
type Handler struct {
	service *markets.Service
	log     zerolog.Logger
}

// NewHandler creates a new markets handler
func NewHandler(service *markets.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "markets").Logger(),
	}
}

// HandleGetEnhancedMarkets handles GET /api/bonk/markets/enhanced
func (h *Handler) HandleGetEnhancedMarkets(w http.ResponseWriter, r *http.Request) {
	q, err := markets.ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.GetVenues(r.Context(), q)
	if err != nil {
		if errors.Is(err, markets.ErrInvalidSort) || errors.Is(err, markets.ErrInvalidOrder) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to get venues")
		h.writeError(w, http.StatusBadGateway, "Failed to load market venues")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
