// Package handlers provides the HTTP handler for the audio library.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/bonkdash/internal/modules/audio"
	"github.com/aristath/bonkdash/internal/utils"
	"github.com/rs/zerolog"
)

// Handler handles audio HTTP requests
type Handler struct {
	catalog *audio.Catalog
	log     zerolog.Logger
}

// NewHandler creates a new audio handler
func NewHandler(catalog *audio.Catalog, log zerolog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		log:     log.With().Str("handler", "audio").Logger(),
	}
}

// HandleGetAudio handles GET /api/audio?verifiedOnly=&category=&tag=
func (h *Handler) HandleGetAudio(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result := h.catalog.Query(audio.Filter{
		VerifiedOnly: utils.QueryBool(q, "verifiedOnly", false),
		Category:     q.Get("category"),
		Tag:          q.Get("tag"),
	})

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
