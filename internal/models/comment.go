package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is never edited in place. There is no standalone delete either:
// comments only disappear when their parent post or their author is deleted.
type Comment struct {
	ID         uuid.UUID `json:"id"`
	PostID     uuid.UUID `json:"postId"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"author"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
