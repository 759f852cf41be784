package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"scribbly/internal/assets"
	"scribbly/internal/auth"
	"scribbly/internal/core"
	"scribbly/internal/utils"
)

// Uploader stores an image payload with the external asset host and
// returns a durable URL. The server never inspects the image bytes.
type Uploader interface {
	Upload(ctx context.Context, payload string) (*assets.UploadResult, error)
}

// Server holds all route-layer dependencies
type Server struct {
	Core     *core.Service
	Tokens   *auth.TokenService
	Uploader Uploader
	Metrics  *utils.MetricsCollector
	Logger   *slog.Logger
}

// NewServer creates a new Server instance with the given components
func NewServer(core *core.Service, tokens *auth.TokenService, uploader Uploader, metrics *utils.MetricsCollector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Core:     core,
		Tokens:   tokens,
		Uploader: uploader,
		Metrics:  metrics,
		Logger:   logger,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.Logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps an error onto the HTTP surface. Application errors
// carry their own status; anything else is a generic server error with
// the detail kept in the log, not the response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		status := utils.AppErrorToHTTPStatus(appErr.Code)
		if status >= 500 {
			s.Logger.Error("request failed", "code", appErr.Code, "error", appErr.Error())
			s.writeJSON(w, status, map[string]string{"error": "Internal server error"})
			return
		}
		s.writeJSON(w, status, map[string]string{"error": appErr.Message})
		return
	}

	s.Logger.Error("request failed", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
