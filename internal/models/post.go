package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry. AuthorUsername is a denormalized snapshot of the
// owning user's name; it is rewritten in bulk when the user renames and
// can be stale in between.
type Post struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       uuid.UUID `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Categories     []string  `json:"categories"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
