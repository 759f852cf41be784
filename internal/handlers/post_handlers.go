package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"scribbly/internal/core"
	"scribbly/internal/middleware"
)

// PostRequest carries the client-supplied post fields for create and
// update. UserID may be present for legacy clients; authorship is taken
// from the verified token claims, never from this field.
type PostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	ImageURL   string   `json:"imageUrl"`
	Categories []string `json:"categories"`
	UserID     string   `json:"userId,omitempty"`
}

// HandleCreatePost handles requests to create a new post
func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		post, err := s.Core.CreatePost(r.Context(), claims.UserID, claims.Username, core.CreatePostRequest{
			Title:      req.Title,
			Content:    req.Content,
			ImageURL:   req.ImageURL,
			Categories: req.Categories,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, post)
	}
}

// HandleUpdatePost handles owner-only post updates
func (s *Server) HandleUpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		postID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		post, err := s.Core.UpdatePost(r.Context(), claims.UserID, postID, core.UpdatePostRequest{
			Title:      req.Title,
			Content:    req.Content,
			ImageURL:   req.ImageURL,
			Categories: req.Categories,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, post)
	}
}

// HandleDeletePost handles owner-only post deletion, cascading to comments
func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		postID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		if err := s.Core.DeletePost(r.Context(), claims.UserID, postID); err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, "Post has been deleted!")
	}
}

// HandleGetPost handles public post detail reads
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			http.Error(w, "Invalid post ID format", http.StatusBadRequest)
			return
		}

		post, err := s.Core.GetPost(r.Context(), postID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, post)
	}
}

// HandleListPosts handles the public listing, optionally filtered by a
// case-insensitive substring search over title, author and categories
func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := s.Core.ListPosts(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, posts)
	}
}

// HandleUserPosts lists all posts owned by a user
func (s *Server) HandleUserPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(mux.Vars(r)["userId"])
		if err != nil {
			http.Error(w, "Invalid user ID format", http.StatusBadRequest)
			return
		}

		posts, err := s.Core.PostsByUser(r.Context(), userID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, posts)
	}
}
