package core

import (
	"context"

	"github.com/google/uuid"

	"scribbly/internal/models"
)

// Store is the persistence contract the service runs on. Implementations
// must provide atomic single-document updates (UpdateSavedPost in
// particular); nothing here spans more than one record atomically. The
// cascades in the service are explicit multi-step sagas on top of these
// primitives, and every delete is a no-op when nothing matches so a
// partial cascade is safe to retry.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	// UpdateSavedPost adds or removes a post id from the user's saved
	// list as one atomic document update. Adding suppresses duplicates.
	UpdateSavedPost(ctx context.Context, userID, postID uuid.UUID, add bool) error

	// Posts
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error)
	// GetPostsByIDs resolves saved-post references; ids with no matching
	// post are skipped, not errors.
	GetPostsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Post, error)
	// SearchPosts matches a case-insensitive substring against title,
	// author username and categories. An empty query returns everything.
	SearchPosts(ctx context.Context, query string) ([]*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	DeletePostsByAuthor(ctx context.Context, authorID uuid.UUID) error

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	DeleteCommentsByPost(ctx context.Context, postID uuid.UUID) error
	DeleteCommentsByAuthor(ctx context.Context, authorID uuid.UUID) error

	// Denormalized-name propagation after a username change
	RenamePostAuthor(ctx context.Context, authorID uuid.UUID, username string) error
	RenameCommentAuthor(ctx context.Context, authorID uuid.UUID, username string) error
}
