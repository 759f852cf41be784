// internal/database/post_repository.go
package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"scribbly/internal/models"
	"scribbly/internal/utils"
)

// PostDocument represents the MongoDB schema for a post.
type PostDocument struct {
	ID             string    `bson:"_id"`
	Title          string    `bson:"title"`
	Content        string    `bson:"content"`
	AuthorID       string    `bson:"authorId"`
	AuthorUsername string    `bson:"authorUsername"`
	ImageURL       string    `bson:"imageUrl,omitempty"`
	Categories     []string  `bson:"categories"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

func postModelToDocument(post *models.Post) *PostDocument {
	return &PostDocument{
		ID:             post.ID.String(),
		Title:          post.Title,
		Content:        post.Content,
		AuthorID:       post.AuthorID.String(),
		AuthorUsername: post.AuthorUsername,
		ImageURL:       post.ImageURL,
		Categories:     post.Categories,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}
}

func postDocumentToModel(doc *PostDocument) (*models.Post, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID: %v", err)
	}

	authorID, err := uuid.Parse(doc.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author ID: %v", err)
	}

	categories := doc.Categories
	if categories == nil {
		categories = []string{}
	}

	return &models.Post{
		ID:             id,
		Title:          doc.Title,
		Content:        doc.Content,
		AuthorID:       authorID,
		AuthorUsername: doc.AuthorUsername,
		ImageURL:       doc.ImageURL,
		Categories:     categories,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

// CreatePost inserts a new post.
func (m *MongoDB) CreatePost(ctx context.Context, post *models.Post) error {
	_, err := m.Posts.InsertOne(ctx, postModelToDocument(post))
	return err
}

// GetPost retrieves a post by its ID.
func (m *MongoDB) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var doc PostDocument

	err := m.Posts.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("Post")
	}
	if err != nil {
		return nil, err
	}

	return postDocumentToModel(&doc)
}

// GetPostsByAuthor retrieves all posts owned by a user, newest first.
func (m *MongoDB) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	return m.findPosts(ctx, bson.M{"authorId": authorID.String()})
}

// GetPostsByIDs resolves saved-post references. Ids with no matching post
// are skipped: a saved post may have been deleted since it was saved.
func (m *MongoDB) GetPostsByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Post, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}
	return m.findPosts(ctx, bson.M{"_id": bson.M{"$in": idStrings}})
}

// SearchPosts matches a case-insensitive substring against title, author
// username and categories. An empty query returns all posts.
func (m *MongoDB) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	filter := bson.M{}
	if query != "" {
		pattern := regexp.QuoteMeta(query)
		rx := bson.M{"$regex": pattern, "$options": "i"}
		filter = bson.M{"$or": []bson.M{
			{"title": rx},
			{"authorUsername": rx},
			{"categories": rx},
		}}
	}
	return m.findPosts(ctx, filter)
}

func (m *MongoDB) findPosts(ctx context.Context, filter bson.M) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.Posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %v", err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	for cursor.Next(ctx) {
		var doc PostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %v", err)
		}

		post, err := postDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration failed: %v", err)
	}

	return posts, nil
}

// UpdatePost overwrites a post's fields.
func (m *MongoDB) UpdatePost(ctx context.Context, post *models.Post) error {
	filter := bson.M{"_id": post.ID.String()}
	update := bson.M{"$set": postModelToDocument(post)}

	result, err := m.Posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Post")
	}
	return nil
}

// DeletePost removes a single post.
func (m *MongoDB) DeletePost(ctx context.Context, id uuid.UUID) error {
	result, err := m.Posts.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Post")
	}
	return nil
}

// DeletePostsByAuthor removes all posts owned by a user. Matching nothing
// is a no-op, so a retried cascade does not fail here.
func (m *MongoDB) DeletePostsByAuthor(ctx context.Context, authorID uuid.UUID) error {
	_, err := m.Posts.DeleteMany(ctx, bson.M{"authorId": authorID.String()})
	return err
}

// RenamePostAuthor bulk-rewrites the denormalized username snapshot on all
// posts owned by the user.
func (m *MongoDB) RenamePostAuthor(ctx context.Context, authorID uuid.UUID, username string) error {
	_, err := m.Posts.UpdateMany(ctx,
		bson.M{"authorId": authorID.String()},
		bson.M{"$set": bson.M{"authorUsername": username}},
	)
	return err
}
