package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Email is stored in normalized form;
// SavedPosts holds weak references to bookmarked posts, so an entry may
// point at a post that no longer exists.
type User struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	HashedPassword string      `json:"-"`
	SavedPosts     []uuid.UUID `json:"savedPosts"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}
