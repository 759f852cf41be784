package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"scribbly/internal/middleware"
	"scribbly/internal/models"
)

// RegisterRequest represents a request to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to log in a user
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token together with the user record
// (password stripped by the model's json tags)
type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// HandleRegister handles requests to register a new user
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		user, err := s.Core.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, user)
	}
}

// HandleLogin verifies credentials, sets the auth cookie and returns the
// token in the body as well, matching the original wire contract.
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		user, token, err := s.Core.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Expires:  time.Now().Add(s.Tokens.TTL()),
		})

		s.writeJSON(w, http.StatusOK, &LoginResponse{User: user, Token: token})
	}
}

// HandleLogout clears the auth cookie
func (s *Server) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Expires:  time.Unix(0, 0),
		})
		s.writeJSON(w, http.StatusOK, "User logged out successfully!")
	}
}

// HandleRefetch returns the identity behind a presented token. The guard
// has already verified it; this resolves the claims to the stored user.
func (s *Server) HandleRefetch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		user, err := s.Core.GetUser(r.Context(), claims.UserID)
		if err != nil {
			s.writeError(w, err)
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"id":       user.ID.String(),
			"username": user.Username,
			"email":    user.Email,
		})
	}
}
