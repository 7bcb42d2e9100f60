package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/bonkdash/internal/modules/audio"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGetAudio(t *testing.T) {
	catalog := &audio.Catalog{Tracks: []audio.Track{
		{ID: "a", Category: "music", Verified: true, Tags: []string{"hype"}, URL: "https://x/a.mp3"},
		{ID: "b", Category: "sfx", Tags: []string{"meme"}, URL: "https://x/b.mp3"},
	}}
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(catalog, logger)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)

	req := httptest.NewRequest("GET", "/api/audio?verifiedOnly=true&category=all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result audio.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	require.Len(t, result.Tracks, 1)
	assert.Equal(t, "a", result.Tracks[0].ID)
	assert.Equal(t, []string{"music", "sfx"}, result.Categories)
	assert.Equal(t, []string{"hype", "meme"}, result.Tags)
}

func TestHandleGetAudio_EmptyCatalog(t *testing.T) {
	handler := NewHandler(&audio.Catalog{}, zerolog.Nop())

	req := httptest.NewRequest("GET", "/api/audio?tag=meme", nil)
	w := httptest.NewRecorder()
	handler.HandleGetAudio(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, []interface{}{}, response["tracks"])
	assert.Equal(t, float64(0), response["count"])
}
