package server

import (
	"context"
	"net/http"
	"time"
)

// Version is reported by the health and status endpoints
const Version = "1.0.0"

// handleHealth handles health check requests. It answers 503 when the cache
// database does not respond.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "bonkdash",
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.QuickCheck(ctx); err != nil {
			s.log.Error().Err(err).Msg("Database health check failed")
			response["status"] = "unhealthy"
			response["error"] = "database unavailable"
			s.writeJSON(w, http.StatusServiceUnavailable, response)
			return
		}
	}

	s.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data, s.log)
}
