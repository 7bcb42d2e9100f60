// Package handlers provides the HTTP handler for meta search.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/bonkdash/internal/modules/search"
	"github.com/rs/zerolog"
)

// Handler handles search HTTP requests
type Handler struct {
	service *search.Service
	log     zerolog.Logger
}

// NewHandler creates a new search handler
func NewHandler(service *search.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "search").Logger(),
	}
}

// HandleSearch handles GET /api/search?q=&tab=&page=&pageSize=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	state := search.StateFromValues(r.URL.Query())

	results, err := h.service.Search(r.Context(), state)
	if err != nil {
		if errors.Is(err, search.ErrMissingQuery) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("query", state.Query()).Msg("Search failed")
		h.writeError(w, http.StatusBadGateway, "Search is temporarily unavailable")
		return
	}

	h.writeJSON(w, http.StatusOK, results)
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
