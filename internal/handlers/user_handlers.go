package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"scribbly/internal/core"
	"scribbly/internal/middleware"
)

// UpdateUserRequest represents a profile update; empty fields are left
// unchanged and the password, if present, is re-validated and re-hashed
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleGetUser handles public profile reads; the password hash is never
// serialized
func (s *Server) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}

		user, err := s.Core.GetUser(r.Context(), userID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, user)
	}
}

// HandleUpdateUser handles owner-only profile updates, including the
// denormalized username propagation to posts and comments
func (s *Server) HandleUpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		user, err := s.Core.UpdateUser(r.Context(), claims.UserID, userID, core.UpdateUserRequest{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, user)
	}
}

// HandleDeleteUser handles owner-only account deletion, cascading to the
// user's posts and comments
func (s *Server) HandleDeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}

		if err := s.Core.DeleteUser(r.Context(), claims.UserID, userID); err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, "User has been deleted!")
	}
}

// HandleSavePost toggles a post in the authenticated user's saved list.
// Legacy clients send a userId in the body; the toggle always applies to
// the verified identity instead.
func (s *Server) HandleSavePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		postID, err := uuid.Parse(mux.Vars(r)["postId"])
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		saved, err := s.Core.ToggleSavedPost(r.Context(), claims.UserID, postID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		if saved {
			s.writeJSON(w, http.StatusOK, "Post saved successfully")
		} else {
			s.writeJSON(w, http.StatusOK, "Post unsaved successfully")
		}
	}
}

// HandleSavedPosts resolves a user's saved ids to posts; ids of deleted
// posts are simply absent from the result
func (s *Server) HandleSavedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(mux.Vars(r)["userId"])
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}

		posts, err := s.Core.SavedPosts(r.Context(), userID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, posts)
	}
}

// HandleCheckSaved reports whether a post is in a user's saved list
func (s *Server) HandleCheckSaved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		userID, err := uuid.Parse(vars["userId"])
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}
		postID, err := uuid.Parse(vars["postId"])
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		saved, err := s.Core.IsSaved(r.Context(), userID, postID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, saved)
	}
}
