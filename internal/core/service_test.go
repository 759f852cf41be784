package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scribbly/internal/auth"
	"scribbly/internal/core"
	"scribbly/internal/database"
	"scribbly/internal/models"
	"scribbly/internal/utils"
)

// bcrypt cost 4 keeps the hashing fast under test
func newTestService() (*core.Service, *database.Memory) {
	store := database.NewMemory()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return core.NewService(store, tokens, 4, nil), store
}

func registerUser(t *testing.T, svc *core.Service, username, email string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), username, email, "Passw0rd!")
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user := registerUser(t, svc, "alice", "alice@x.com")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.NotEqual(t, "Passw0rd!", user.HashedPassword)

	loggedIn, token, err := svc.Login(ctx, "alice@x.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyCredential(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registerUser(t, svc, "alice", "alice@x.com")

	_, token, err := svc.Login(ctx, "alice@x.com", "WrongPass1!")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotAuthenticated))
	assert.Empty(t, token)
}

func TestRegisterDuplicateEmailCaseFolded(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	registerUser(t, svc, "alice", "alice@x.com")

	// Different case folds to the same normalized email
	_, err := svc.Register(ctx, "alice2", "Alice@X.com", "Passw0rd!")
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))

	// No second record was created
	_, err = store.GetUserByUsername(ctx, "alice2")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	registerUser(t, svc, "alice", "alice@x.com")

	_, err := svc.Register(ctx, "alice", "other@x.com", "Passw0rd!")
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))
}

func TestRegisterWeakPasswordReportsFirstRule(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@x.com", "Ab1!")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))
	assert.Equal(t, "Password must be at least 8 characters long", err.(*utils.AppError).Message)
}

func TestLoginRawEmailFallback(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	// An account that predates normalization, stored with raw casing
	legacy := &models.User{
		ID:        uuid.New(),
		Username:  "legacy",
		Email:     "Legacy+old@Gmail.com",
		CreatedAt: time.Now(),
	}
	digest, err := auth.HashPassword("Passw0rd!", 4)
	require.NoError(t, err)
	legacy.HashedPassword = digest
	require.NoError(t, store.CreateUser(ctx, legacy))

	user, token, err := svc.Login(ctx, "Legacy+old@Gmail.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestPostOwnership(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")
	bob := registerUser(t, svc, "bob", "bob@x.com")

	post, err := svc.CreatePost(ctx, alice.ID, alice.Username, core.CreatePostRequest{
		Title:   "hello",
		Content: "first post",
	})
	require.NoError(t, err)

	// Bob holds a valid identity but does not own the post
	_, err = svc.UpdatePost(ctx, bob.ID, post.ID, core.UpdatePostRequest{Title: "hijacked"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotAuthorized))

	err = svc.DeletePost(ctx, bob.ID, post.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotAuthorized))

	// The post is unchanged
	unchanged, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", unchanged.Title)

	// The owner can always mutate
	updated, err := svc.UpdatePost(ctx, alice.ID, post.ID, core.UpdatePostRequest{Title: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)

	require.NoError(t, svc.DeletePost(ctx, alice.ID, post.ID))
	_, err = svc.GetPost(ctx, post.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestUpdateMissingPostIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")

	_, err := svc.UpdatePost(ctx, alice.ID, uuid.New(), core.UpdatePostRequest{Title: "x"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestDeletePostCascadesComments(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")
	bob := registerUser(t, svc, "bob", "bob@x.com")

	post, err := svc.CreatePost(ctx, alice.ID, alice.Username, core.CreatePostRequest{
		Title:   "hello",
		Content: "first post",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateComment(ctx, bob.ID, bob.Username, post.ID, "nice post")
		require.NoError(t, err)
	}

	comments, err := svc.CommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	require.NoError(t, svc.DeletePost(ctx, alice.ID, post.ID))

	comments, err = svc.CommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteUserCascades(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")
	bob := registerUser(t, svc, "bob", "bob@x.com")

	var alicePost *models.Post
	for i := 0; i < 2; i++ {
		post, err := svc.CreatePost(ctx, alice.ID, alice.Username, core.CreatePostRequest{
			Title:   "post",
			Content: "body",
		})
		require.NoError(t, err)
		alicePost = post
	}

	bobPost, err := svc.CreatePost(ctx, bob.ID, bob.Username, core.CreatePostRequest{
		Title:   "bob post",
		Content: "body",
	})
	require.NoError(t, err)

	// Alice comments on Bob's post; those must go away with her account
	_, err = svc.CreateComment(ctx, alice.ID, alice.Username, bobPost.ID, "hi")
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, bob.ID, bob.Username, alicePost.ID, "hello")
	require.NoError(t, err)

	// Bob may not delete Alice's account
	err = svc.DeleteUser(ctx, bob.ID, alice.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotAuthorized))

	require.NoError(t, svc.DeleteUser(ctx, alice.ID, alice.ID))

	_, err = svc.GetUser(ctx, alice.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	posts, err := svc.PostsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)

	// Bob's post survives, Alice's comment on it does not
	comments, err := svc.CommentsByPost(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = svc.GetPost(ctx, bobPost.ID)
	assert.NoError(t, err)
}

func TestUsernameChangePropagates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")

	post, err := svc.CreatePost(ctx, alice.ID, alice.Username, core.CreatePostRequest{
		Title:   "post",
		Content: "body",
	})
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, alice.ID, alice.Username, post.ID, "self comment")
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, alice.ID, alice.ID, core.UpdateUserRequest{Username: "alicia"})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.AuthorUsername)

	comments, err := svc.CommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "alicia", comments[0].AuthorName)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")

	_, err := svc.UpdateUser(ctx, alice.ID, alice.ID, core.UpdateUserRequest{Password: "N3wSecret!"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@x.com", "Passw0rd!")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotAuthenticated))

	_, token, err := svc.Login(ctx, "alice@x.com", "N3wSecret!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestUpdateUserRejectsWeakPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")

	_, err := svc.UpdateUser(ctx, alice.ID, alice.ID, core.UpdateUserRequest{Password: "short"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))
}

func TestUpdateOtherUserDenied(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")
	bob := registerUser(t, svc, "bob", "bob@x.com")

	_, err := svc.UpdateUser(ctx, bob.ID, alice.ID, core.UpdateUserRequest{Username: "mallory"})
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotAuthorized))
}

func TestSaveToggleIsItsOwnInverse(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")
	post, err := svc.CreatePost(ctx, alice.ID, alice.Username, core.CreatePostRequest{
		Title:   "post",
		Content: "body",
	})
	require.NoError(t, err)

	saved, err := svc.IsSaved(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	nowSaved, err := svc.ToggleSavedPost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, nowSaved)

	saved, err = svc.IsSaved(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	nowSaved, err = svc.ToggleSavedPost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, nowSaved)

	saved, err = svc.IsSaved(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestSavedPostsSkipDanglingIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")
	bob := registerUser(t, svc, "bob", "bob@x.com")

	keep, err := svc.CreatePost(ctx, alice.ID, alice.Username, core.CreatePostRequest{Title: "keep", Content: "body"})
	require.NoError(t, err)
	doomed, err := svc.CreatePost(ctx, alice.ID, alice.Username, core.CreatePostRequest{Title: "doomed", Content: "body"})
	require.NoError(t, err)

	_, err = svc.ToggleSavedPost(ctx, bob.ID, keep.ID)
	require.NoError(t, err)
	_, err = svc.ToggleSavedPost(ctx, bob.ID, doomed.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, alice.ID, doomed.ID))

	// The dangling saved id resolves to "no longer found", not an error
	posts, err := svc.SavedPosts(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, keep.ID, posts[0].ID)
}

func TestSearchPosts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")
	bob := registerUser(t, svc, "bobby", "bob@x.com")

	_, err := svc.CreatePost(ctx, alice.ID, alice.Username, core.CreatePostRequest{
		Title:      "Cooking with Go",
		Content:    "body",
		Categories: []string{"Food", "Programming"},
	})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, bob.ID, bob.Username, core.CreatePostRequest{
		Title:   "Travel notes",
		Content: "body",
	})
	require.NoError(t, err)

	// Case-insensitive substring over title
	posts, err := svc.ListPosts(ctx, "cooking")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Cooking with Go", posts[0].Title)

	// Over author username
	posts, err = svc.ListPosts(ctx, "BOB")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Travel notes", posts[0].Title)

	// Over categories
	posts, err = svc.ListPosts(ctx, "program")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	// Empty query returns everything
	posts, err = svc.ListPosts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestCommentOnMissingPost(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	alice := registerUser(t, svc, "alice", "alice@x.com")

	_, err := svc.CreateComment(ctx, alice.ID, alice.Username, uuid.New(), "hello?")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestVerifyCredentialTaxonomy(t *testing.T) {
	store := database.NewMemory()
	expired := core.NewService(store, auth.NewTokenService("s", -time.Minute), 4, nil)
	fresh := core.NewService(store, auth.NewTokenService("s", time.Hour), 4, nil)

	_, err := fresh.VerifyCredential("")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotAuthenticated))

	_, err = fresh.VerifyCredential("garbage")
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotAuthenticated))

	token, err := auth.NewTokenService("s", -time.Minute).Issue(uuid.New(), "a", "a@x.com")
	require.NoError(t, err)
	_, err = expired.VerifyCredential(token)
	assert.True(t, utils.IsErrorCode(err, utils.ErrTokenExpired))
}
