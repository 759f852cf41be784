package handlers

import (
	"net/http"
	"time"
)

// HandleHealth reports liveness together with the request counters
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, errors, uptime := s.Metrics.Snapshot()

		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "healthy",
			"request_count": requests,
			"error_count":   errors,
			"uptime":        uptime.String(),
			"server_time":   time.Now(),
		})
	}
}
