// internal/database/comment_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"scribbly/internal/models"
)

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID         string    `bson:"_id"`
	PostID     string    `bson:"postId"`
	AuthorID   string    `bson:"authorId"`
	AuthorName string    `bson:"author"`
	Content    string    `bson:"content"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func commentModelToDocument(comment *models.Comment) *CommentDocument {
	return &CommentDocument{
		ID:         comment.ID.String(),
		PostID:     comment.PostID.String(),
		AuthorID:   comment.AuthorID.String(),
		AuthorName: comment.AuthorName,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
	}
}

func commentDocumentToModel(doc *CommentDocument) (*models.Comment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID: %v", err)
	}

	postID, err := uuid.Parse(doc.PostID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	return &models.Comment{
		ID:         id,
		PostID:     postID,
		AuthorID:   authorID,
		AuthorName: doc.AuthorName,
		Content:    doc.Content,
		CreatedAt:  doc.CreatedAt,
	}, nil
}

// CreateComment inserts a new comment
func (m *MongoDB) CreateComment(ctx context.Context, comment *models.Comment) error {
	_, err := m.Comments.InsertOne(ctx, commentModelToDocument(comment))
	return err
}

// GetCommentsByPost retrieves all comments on a post, oldest first
func (m *MongoDB) GetCommentsByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.Comments.Find(ctx, bson.M{"postId": postID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	comments := []*models.Comment{}
	for cursor.Next(ctx) {
		var doc CommentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %v", err)
		}

		comment, err := commentDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return comments, nil
}

// DeleteCommentsByPost removes all comments on a post. Idempotent: an
// empty match is a no-op.
func (m *MongoDB) DeleteCommentsByPost(ctx context.Context, postID uuid.UUID) error {
	_, err := m.Comments.DeleteMany(ctx, bson.M{"postId": postID.String()})
	return err
}

// DeleteCommentsByAuthor removes all comments written by a user.
func (m *MongoDB) DeleteCommentsByAuthor(ctx context.Context, authorID uuid.UUID) error {
	_, err := m.Comments.DeleteMany(ctx, bson.M{"authorId": authorID.String()})
	return err
}

// RenameCommentAuthor bulk-rewrites the denormalized author name on all
// comments written by the user.
func (m *MongoDB) RenameCommentAuthor(ctx context.Context, authorID uuid.UUID, username string) error {
	_, err := m.Comments.UpdateMany(ctx,
		bson.M{"authorId": authorID.String()},
		bson.M{"$set": bson.M{"author": username}},
	)
	return err
}
