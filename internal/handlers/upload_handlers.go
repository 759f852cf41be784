package handlers

import (
	"encoding/json"
	"net/http"
)

// UploadRequest carries a base64-encoded image payload, optionally with a
// data-URL prefix
type UploadRequest struct {
	File string `json:"file"`
}

// HandleUpload forwards the payload to the asset host and returns the
// durable URL. The image bytes are never inspected here.
func (s *Server) HandleUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Uploader == nil {
			http.Error(w, "Uploads are not configured", http.StatusServiceUnavailable)
			return
		}

		var req UploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.File == "" {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.Uploader.Upload(r.Context(), req.File)
		if err != nil {
			s.Logger.Error("upload failed", "error", err)
			s.writeJSON(w, http.StatusInternalServerError, "Error uploading image")
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"url":    result.URL,
			"fileId": result.FileID,
			"name":   result.Name,
		})
	}
}
