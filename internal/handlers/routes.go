package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"scribbly/internal/middleware"
)

// NewRouter wires the endpoint surface. Read-only routes are public;
// every state-mutating route goes through the token guard first, so the
// handler body never runs without a verified identity in the context.
func (s *Server) NewRouter(corsConfig *middleware.CORSConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(s.Logger, s.Metrics))
	r.Use(middleware.CORSMiddleware(corsConfig))

	guard := middleware.RequireToken(s.Tokens)

	r.HandleFunc("/health", s.HandleHealth()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/register", s.HandleRegister()).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/login", s.HandleLogin()).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/logout", s.HandleLogout()).Methods(http.MethodGet)
	api.Handle("/auth/refetch", guard(s.HandleRefetch())).Methods(http.MethodGet)

	// Posts
	api.Handle("/posts/create", guard(s.HandleCreatePost())).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/posts/user/{userId}", s.HandleUserPosts()).Methods(http.MethodGet)
	api.Handle("/posts/{id}", guard(s.HandleUpdatePost())).Methods(http.MethodPut, http.MethodOptions)
	api.Handle("/posts/{id}", guard(s.HandleDeletePost())).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/posts/{id}", s.HandleGetPost()).Methods(http.MethodGet)
	api.HandleFunc("/posts", s.HandleListPosts()).Methods(http.MethodGet)

	// Users
	api.Handle("/users/save-post/{postId}", guard(s.HandleSavePost())).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/users/saved-posts/{userId}", s.HandleSavedPosts()).Methods(http.MethodGet)
	api.HandleFunc("/users/check-saved/{userId}/{postId}", s.HandleCheckSaved()).Methods(http.MethodGet)
	api.Handle("/users/{id}", guard(s.HandleUpdateUser())).Methods(http.MethodPut, http.MethodOptions)
	api.Handle("/users/{id}", guard(s.HandleDeleteUser())).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/users/{id}", s.HandleGetUser()).Methods(http.MethodGet)

	// Comments
	api.Handle("/comments/create", guard(s.HandleCreateComment())).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/comments/post/{postId}", s.HandlePostComments()).Methods(http.MethodGet)

	// Image upload
	api.HandleFunc("/upload", s.HandleUpload()).Methods(http.MethodPost, http.MethodOptions)

	return r
}
