// Package handlers provides HTTP handlers for token charts, snapshots and social analytics.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aristath/bonkdash/internal/clients/upstream"
	"github.com/aristath/bonkdash/internal/modules/tokens"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles token HTTP requests
type Handler struct {
	service       *tokens.Service
	defaultCoinID string
	log           zerolog.Logger
}

// NewHandler creates a new tokens handler
func NewHandler(service *tokens.Service, defaultCoinID string, log zerolog.Logger) *Handler {
	return &Handler{
		service:       service,
		defaultCoinID: defaultCoinID,
		log:           log.With().Str("handler", "tokens").Logger(),
	}
}

// HandleGetTokenChart handles GET /api/coingecko/token/{id}?days=
func (h *Handler) HandleGetTokenChart(w http.ResponseWriter, r *http.Request) {
	id := coinParam(r)
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "token id is required")
		return
	}

	chart, err := h.service.GetTokenChart(r.Context(), id, r.URL.Query().Get("days"))
	if err != nil {
		h.upstreamError(w, err, id, "Failed to load token chart")
		return
	}

	h.writeJSON(w, http.StatusOK, chart)
}

// HandleGetCoin handles GET /api/coin/{id}
func (h *Handler) HandleGetCoin(w http.ResponseWriter, r *http.Request) {
	id := coinParam(r)
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "coin id is required")
		return
	}

	snap, err := h.service.GetSnapshot(r.Context(), id)
	if err != nil {
		h.upstreamError(w, err, id, "Failed to load coin data")
		return
	}

	h.writeJSON(w, http.StatusOK, snap)
}

// HandleGetSocialAnalytics handles GET /api/test/lunarcrush-coins-v2?timeRange=&coinId=
func (h *Handler) HandleGetSocialAnalytics(w http.ResponseWriter, r *http.Request) {
	coinID := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("coinId")))
	if coinID == "" {
		coinID = h.defaultCoinID
	}

	analytics, err := h.service.GetSocialAnalytics(r.Context(), coinID, r.URL.Query().Get("timeRange"))
	if err != nil {
		if errors.Is(err, tokens.ErrInvalidTimeRange) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.upstreamError(w, err, coinID, "Failed to load social analytics")
		return
	}

	h.writeJSON(w, http.StatusOK, analytics)
}

func coinParam(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(chi.URLParam(r, "id")))
}

func (h *Handler) upstreamError(w http.ResponseWriter, err error, id, message string) {
	if upstream.IsNotFound(err) {
		h.writeError(w, http.StatusNotFound, "Unknown coin: "+id)
		return
	}
	h.log.Error().Err(err).Str("coin", id).Msg(message)
	h.writeError(w, http.StatusBadGateway, message)
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
