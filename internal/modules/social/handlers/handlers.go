// Package handlers provides HTTP handlers for topic social data.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/aristath/bonkdash/internal/clients/upstream"
	"github.com/aristath/bonkdash/internal/modules/social"
	"github.com/aristath/bonkdash/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultInfluencerLimit = 10
	defaultFeedLimit       = 20
)

// Handler handles social HTTP requests
type Handler struct {
	service *social.Service
	log     zerolog.Logger
}

// NewHandler creates a new social handler
func NewHandler(service *social.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "social").Logger(),
	}
}

// HandleGetInfluencers handles GET /api/influencers/{id}?limit=
func (h *Handler) HandleGetInfluencers(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topic(w, r)
	if !ok {
		return
	}
	limit := utils.Limit(utils.QueryInt(r.URL.Query(), "limit", 0), defaultInfluencerLimit, utils.MaxPageSize)

	influencers, err := h.service.GetInfluencers(r.Context(), topic, limit)
	if err != nil {
		h.upstreamError(w, err, topic, "Failed to load influencers")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"topic":       topic,
		"influencers": influencers,
		"count":       len(influencers),
	})
}

// HandleGetFeed handles GET /api/feeds/{id}?limit=
func (h *Handler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topic(w, r)
	if !ok {
		return
	}
	limit := utils.Limit(utils.QueryInt(r.URL.Query(), "limit", 0), defaultFeedLimit, utils.MaxPageSize)

	posts, err := h.service.GetFeed(r.Context(), topic, limit)
	if err != nil {
		h.upstreamError(w, err, topic, "Failed to load social feed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"topic": topic,
		"posts": posts,
		"count": len(posts),
	})
}

// HandleGetNews handles GET /api/news/{id}?limit=
func (h *Handler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topic(w, r)
	if !ok {
		return
	}
	limit := utils.Limit(utils.QueryInt(r.URL.Query(), "limit", 0), defaultFeedLimit, utils.MaxPageSize)

	articles, err := h.service.GetNews(r.Context(), topic, limit)
	if err != nil {
		h.upstreamError(w, err, topic, "Failed to load news")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"topic":    topic,
		"articles": articles,
		"count":    len(articles),
	})
}

// HandleGetSummary handles GET /api/ai-summary/{id}
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topic(w, r)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(r.Context(), topic)
	if err != nil {
		h.upstreamError(w, err, topic, "Failed to load AI summary")
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

// HandleGetSocialDominance handles GET /api/social-dominance/{id}
func (h *Handler) HandleGetSocialDominance(w http.ResponseWriter, r *http.Request) {
	topic, ok := h.topic(w, r)
	if !ok {
		return
	}

	dominance, err := h.service.GetSocialDominance(r.Context(), topic)
	if err != nil {
		h.upstreamError(w, err, topic, "Failed to load social dominance")
		return
	}

	h.writeJSON(w, http.StatusOK, dominance)
}

func (h *Handler) topic(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}

	topic, err := social.Topic(raw)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return topic, true
}

func (h *Handler) upstreamError(w http.ResponseWriter, err error, topic, message string) {
	if upstream.IsNotFound(err) {
		h.writeError(w, http.StatusNotFound, "Unknown topic: "+topic)
		return
	}
	h.log.Error().Err(err).Str("topic", topic).Msg(message)
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
