package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"scribbly/internal/auth"
	"scribbly/internal/models"
	"scribbly/internal/utils"
)

// Service implements the authentication, authorization and ownership core
// on top of a Store. Every mutating operation takes the acting identity as
// a separate argument; handlers pass the user id from the verified token
// claims, never a client-supplied field.
type Service struct {
	store      Store
	tokens     *auth.TokenService
	bcryptCost int
	logger     *slog.Logger
}

func NewService(store Store, tokens *auth.TokenService, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new account. The email is normalized before the
// uniqueness check, so Alice@X.com collides with alice@x.com.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	normalized, err := auth.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, utils.NewValidationError("Username is required")
	}

	if existing, err := s.store.GetUserByEmail(ctx, normalized); err == nil && existing != nil {
		return nil, utils.NewDuplicateError("Email")
	}
	if existing, err := s.store.GetUserByUsername(ctx, username); err == nil && existing != nil {
		return nil, utils.NewDuplicateError("Username")
	}

	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	digest, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, utils.NewStorageError("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          normalized,
		HashedPassword: digest,
		SavedPosts:     []uuid.UUID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "userId", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies the credentials and issues a bearer token. The lookup
// tries the normalized email first and falls back to the raw form for
// accounts created before normalization existed.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", utils.NewValidationError("Email and password are required")
	}

	user, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPassword(password, user.HashedPassword) {
		return nil, "", utils.NewNotAuthenticatedError("invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, "", utils.NewStorageError("failed to issue token", err)
	}

	return user, token, nil
}

func (s *Service) lookupByEmail(ctx context.Context, email string) (*models.User, error) {
	if normalized, err := auth.NormalizeEmail(email); err == nil {
		if user, err := s.store.GetUserByEmail(ctx, normalized); err == nil {
			return user, nil
		}
	}
	return s.store.GetUserByEmail(ctx, email)
}

// VerifyCredential maps token verification onto the error taxonomy. It is
// the "verifyAndAuthorize" entry point the route layer consumes.
func (s *Service) VerifyCredential(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	switch err {
	case nil:
		return claims, nil
	case auth.ErrTokenExpired:
		return nil, utils.NewAppError(utils.ErrTokenExpired, "Token expired", err)
	case auth.ErrNoToken:
		return nil, utils.NewNotAuthenticatedError("no token provided")
	default:
		return nil, utils.NewNotAuthenticatedError("invalid token")
	}
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// UpdateUserRequest carries the optional profile fields. An empty field is
// left unchanged.
type UpdateUserRequest struct {
	Username string
	Email    string
	Password string
}

// UpdateUser mutates a profile. Only the account owner may update it: the
// target id must equal the verified actor id. A username change triggers
// the denormalized-name rewrite on the user's posts and comments; that
// propagation is best-effort, and a partial failure surfaces as a storage
// error rather than a silent success.
func (s *Service) UpdateUser(ctx context.Context, actorID, targetID uuid.UUID, req UpdateUserRequest) (*models.User, error) {
	if actorID != targetID {
		return nil, utils.NewNotAuthorizedError("you can update only your account")
	}

	user, err := s.store.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	oldUsername := user.Username

	if req.Email != "" {
		normalized, err := auth.NormalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if normalized != user.Email {
			if existing, err := s.store.GetUserByEmail(ctx, normalized); err == nil && existing != nil && existing.ID != targetID {
				return nil, utils.NewDuplicateError("Email")
			}
			user.Email = normalized
		}
	}

	if req.Username != "" && req.Username != user.Username {
		if existing, err := s.store.GetUserByUsername(ctx, req.Username); err == nil && existing != nil && existing.ID != targetID {
			return nil, utils.NewDuplicateError("Username")
		}
		user.Username = req.Username
	}

	if req.Password != "" {
		if err := auth.ValidatePassword(req.Password); err != nil {
			return nil, err
		}
		digest, err := auth.HashPassword(req.Password, s.bcryptCost)
		if err != nil {
			return nil, utils.NewStorageError("failed to hash password", err)
		}
		user.HashedPassword = digest
	}

	user.UpdatedAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	// Propagate the rename to the denormalized snapshots. Stale copies are
	// expected until this completes; a failed step is reported, not hidden.
	if user.Username != oldUsername {
		var result *multierror.Error
		if err := s.store.RenamePostAuthor(ctx, user.ID, user.Username); err != nil {
			result = multierror.Append(result, err)
		}
		if err := s.store.RenameCommentAuthor(ctx, user.ID, user.Username); err != nil {
			result = multierror.Append(result, err)
		}
		if err := result.ErrorOrNil(); err != nil {
			s.logger.Error("username propagation failed", "userId", user.ID, "error", err)
			return nil, utils.NewStorageError("failed to propagate username change", err)
		}
	}

	return user, nil
}

// DeleteUser removes an account and cascades to its posts and comments.
// The steps are not transactional: the user record goes first, dependents
// after, and each step is idempotent so a crashed cascade can be retried.
func (s *Service) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID != targetID {
		return utils.NewNotAuthorizedError("you can delete only your account")
	}

	if err := s.store.DeleteUser(ctx, targetID); err != nil {
		return err
	}

	var result *multierror.Error
	if err := s.store.DeletePostsByAuthor(ctx, targetID); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.store.DeleteCommentsByAuthor(ctx, targetID); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		s.logger.Error("user cascade failed", "userId", targetID, "error", err)
		return utils.NewStorageError("failed to delete dependent records", err)
	}

	s.logger.Info("user deleted", "userId", targetID)
	return nil
}

// CreatePostRequest carries the author-supplied post fields.
type CreatePostRequest struct {
	Title      string
	Content    string
	ImageURL   string
	Categories []string
}

func (s *Service) CreatePost(ctx context.Context, authorID uuid.UUID, authorUsername string, req CreatePostRequest) (*models.Post, error) {
	if req.Title == "" || req.Content == "" {
		return nil, utils.NewValidationError("Title and content are required")
	}

	now := time.Now()
	post := &models.Post{
		ID:             uuid.New(),
		Title:          req.Title,
		Content:        req.Content,
		AuthorID:       authorID,
		AuthorUsername: authorUsername,
		ImageURL:       req.ImageURL,
		Categories:     req.Categories,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if post.Categories == nil {
		post.Categories = []string{}
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.store.GetPost(ctx, id)
}

func (s *Service) ListPosts(ctx context.Context, search string) ([]*models.Post, error) {
	return s.store.SearchPosts(ctx, search)
}

func (s *Service) PostsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	return s.store.GetPostsByAuthor(ctx, userID)
}

// UpdatePostRequest carries the optional post fields; empty fields are
// left unchanged.
type UpdatePostRequest struct {
	Title      string
	Content    string
	ImageURL   string
	Categories []string
}

// UpdatePost applies an owner-only mutation. The ownership check compares
// the post's author against the verified actor identity; NotFound is
// reported before the ownership check, matching the original surface.
func (s *Service) UpdatePost(ctx context.Context, actorID, postID uuid.UUID, req UpdatePostRequest) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actorID {
		return nil, utils.NewNotAuthorizedError("you can update only your posts")
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if req.Categories != nil {
		post.Categories = req.Categories
	}
	post.UpdatedAt = time.Now()

	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and cascades to its comments. Post first,
// comments after; deleting already-absent comments is a no-op.
func (s *Service) DeletePost(ctx context.Context, actorID, postID uuid.UUID) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != actorID {
		return utils.NewNotAuthorizedError("you can delete only your posts")
	}

	if err := s.store.DeletePost(ctx, postID); err != nil {
		return err
	}
	if err := s.store.DeleteCommentsByPost(ctx, postID); err != nil {
		s.logger.Error("post cascade failed", "postId", postID, "error", err)
		return utils.NewStorageError("failed to delete post comments", err)
	}

	return nil
}

// CreateComment adds a comment to an existing post. Any authenticated user
// may comment on any post; there is no ownership check here.
func (s *Service) CreateComment(ctx context.Context, authorID uuid.UUID, authorName string, postID uuid.UUID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, utils.NewValidationError("Comment content is required")
	}

	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:         uuid.New(),
		PostID:     postID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) CommentsByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	return s.store.GetCommentsByPost(ctx, postID)
}

// ToggleSavedPost flips the post's membership in the user's saved list and
// reports the resulting state. Concurrent toggles from the same user may
// race into either state; exactly-once semantics are out of scope.
func (s *Service) ToggleSavedPost(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}

	saved := containsID(user.SavedPosts, postID)
	if err := s.store.UpdateSavedPost(ctx, userID, postID, !saved); err != nil {
		return false, err
	}
	return !saved, nil
}

// IsSaved is a pure membership lookup with no side effects.
func (s *Service) IsSaved(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return containsID(user.SavedPosts, postID), nil
}

// SavedPosts resolves the user's saved ids to posts. Ids of posts that
// have since been deleted resolve to nothing rather than an error.
func (s *Service) SavedPosts(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.SavedPosts) == 0 {
		return []*models.Post{}, nil
	}
	return s.store.GetPostsByIDs(ctx, user.SavedPosts)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
