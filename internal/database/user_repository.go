// internal/database/user_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"scribbly/internal/models"
	"scribbly/internal/utils"
)

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string    `bson:"_id"`            // MongoDB primary key
	Username       string    `bson:"username"`       // Username, unique
	Email          string    `bson:"email"`          // Normalized email, unique
	HashedPassword string    `bson:"hashedPassword"` // Hashed password
	SavedPosts     []string  `bson:"savedPosts"`     // Saved post IDs
	CreatedAt      time.Time `bson:"createdAt"`      // Account creation timestamp
	UpdatedAt      time.Time `bson:"updatedAt"`      // Last profile update
}

func userModelToDocument(user *models.User) *UserDocument {
	doc := &UserDocument{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		HashedPassword: user.HashedPassword,
		SavedPosts:     make([]string, len(user.SavedPosts)),
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	for i, postID := range user.SavedPosts {
		doc.SavedPosts[i] = postID.String()
	}
	return doc
}

func userDocumentToModel(doc *UserDocument) (*models.User, error) {
	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	savedPosts := make([]uuid.UUID, len(doc.SavedPosts))
	for i, idStr := range doc.SavedPosts {
		postID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid saved post ID in database: %v", err)
		}
		savedPosts[i] = postID
	}

	return &models.User{
		ID:             userID,
		Username:       doc.Username,
		Email:          doc.Email,
		HashedPassword: doc.HashedPassword,
		SavedPosts:     savedPosts,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}, nil
}

// CreateUser inserts a new user. A unique-index collision on username or
// email surfaces as a duplicate-identity error.
func (m *MongoDB) CreateUser(ctx context.Context, user *models.User) error {
	_, err := m.Users.InsertOne(ctx, userModelToDocument(user))
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewDuplicateError("Username or email")
	}
	return err
}

// GetUser retrieves a user by ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.findUser(ctx, bson.M{"_id": id.String()})
}

// GetUserByEmail retrieves a user by their stored (normalized) email
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

// GetUserByUsername retrieves a user by username
func (m *MongoDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"username": username})
}

func (m *MongoDB) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewNotFoundError("User")
	}
	if err != nil {
		return nil, err
	}

	return userDocumentToModel(&doc)
}

// UpdateUser overwrites a user's fields
func (m *MongoDB) UpdateUser(ctx context.Context, user *models.User) error {
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": userModelToDocument(user)}

	result, err := m.Users.UpdateOne(ctx, filter, update)
	if mongo.IsDuplicateKeyError(err) {
		return utils.NewDuplicateError("Username or email")
	}
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("User")
	}
	return nil
}

// DeleteUser removes a user record
func (m *MongoDB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := m.Users.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("User")
	}
	return nil
}

// UpdateSavedPost adds or removes a post from a user's saved list as a
// single atomic document update. $addToSet suppresses duplicates.
func (m *MongoDB) UpdateSavedPost(ctx context.Context, userID, postID uuid.UUID, add bool) error {
	filter := bson.M{"_id": userID.String()}
	var update bson.M

	if add {
		update = bson.M{"$addToSet": bson.M{"savedPosts": postID.String()}}
	} else {
		update = bson.M{"$pull": bson.M{"savedPosts": postID.String()}}
	}

	result, err := m.Users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("User")
	}
	return nil
}
