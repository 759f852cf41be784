package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"scribbly/internal/middleware"
)

// CreateCommentRequest represents a request to comment on a post
type CreateCommentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"comment"`
}

// HandleCreateComment handles comment creation. Any authenticated user
// may comment on any existing post; the author is the verified identity.
func (s *Server) HandleCreateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		var req CreateCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		postID, err := uuid.Parse(req.PostID)
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		comment, err := s.Core.CreateComment(r.Context(), claims.UserID, claims.Username, postID, req.Content)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, comment)
	}
}

// HandlePostComments lists all comments on a post, oldest first
func (s *Server) HandlePostComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(mux.Vars(r)["postId"])
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		comments, err := s.Core.CommentsByPost(r.Context(), postID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, comments)
	}
}
