// Package handlers provides HTTP handlers for alert configuration.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aristath/bonkdash/internal/modules/alerts"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// MetricsSource provides the current metric values of a coin
type MetricsSource interface {
	GetMetrics(ctx context.Context, coinID string) (map[string]float64, error)
}

// Handler handles alert HTTP requests
type Handler struct {
	store         *alerts.Store
	metrics       MetricsSource
	defaultCoinID string
	log           zerolog.Logger
}

// NewHandler creates a new alerts handler
func NewHandler(store *alerts.Store, metrics MetricsSource, defaultCoinID string, log zerolog.Logger) *Handler {
	return &Handler{
		store:         store,
		metrics:       metrics,
		defaultCoinID: defaultCoinID,
		log:           log.With().Str("handler", "alerts").Logger(),
	}
}

// HandleList handles GET /api/alerts
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list := h.store.List()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": list,
		"count":  len(list),
	})
}

// HandleCreate handles POST /api/alerts
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req alerts.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	alert, err := h.store.Create(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, alert)
}

// HandleToggle handles POST /api/alerts/{id}/toggle
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	alert, err := h.store.Toggle(chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, alert)
}

// HandleDelete handles DELETE /api/alerts/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		h.storeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// HandleEvaluate handles POST /api/alerts/evaluate?coinId=
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	coinID := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("coinId")))
	if coinID == "" {
		coinID = h.defaultCoinID
	}

	metrics, err := h.metrics.GetMetrics(r.Context(), coinID)
	if err != nil {
		h.log.Error().Err(err).Str("coin", coinID).Msg("Failed to load metrics for alert evaluation")
		h.writeError(w, http.StatusBadGateway, "Failed to load coin metrics")
		return
	}

	triggered := h.store.Evaluate(metrics)
	if triggered == nil {
		triggered = []alerts.Alert{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"coinId":    coinID,
		"metrics":   metrics,
		"triggered": triggered,
	})
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, alerts.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeError(w, http.StatusInternalServerError, err.Error())
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
