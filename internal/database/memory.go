// internal/database/memory.go
package database

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"scribbly/internal/models"
	"scribbly/internal/utils"
)

// Memory is an in-memory implementation of the store contract, used by
// tests and local development. Per-record mutations hold one lock, which
// gives the same single-document atomicity the MongoDB implementation
// gets from its update operators.
type Memory struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*models.User
	posts    map[uuid.UUID]*models.Post
	comments map[uuid.UUID]*models.Comment
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[uuid.UUID]*models.User),
		posts:    make(map[uuid.UUID]*models.Post),
		comments: make(map[uuid.UUID]*models.Comment),
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.SavedPosts = append([]uuid.UUID(nil), u.SavedPosts...)
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Categories = append([]string(nil), p.Categories...)
	return &c
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return utils.NewDuplicateError("Username or email")
		}
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User")
	}
	return cloneUser(user), nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, utils.NewNotFoundError("User")
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, utils.NewNotFoundError("User")
}

func (m *Memory) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return utils.NewNotFoundError("User")
	}
	for _, existing := range m.users {
		if existing.ID == user.ID {
			continue
		}
		if existing.Username == user.Username || existing.Email == user.Email {
			return utils.NewDuplicateError("Username or email")
		}
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return utils.NewNotFoundError("User")
	}
	delete(m.users, id)
	return nil
}

func (m *Memory) UpdateSavedPost(_ context.Context, userID, postID uuid.UUID, add bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return utils.NewNotFoundError("User")
	}

	if add {
		for _, id := range user.SavedPosts {
			if id == postID {
				return nil // duplicates suppressed
			}
		}
		user.SavedPosts = append(user.SavedPosts, postID)
		return nil
	}

	kept := user.SavedPosts[:0]
	for _, id := range user.SavedPosts {
		if id != postID {
			kept = append(kept, id)
		}
	}
	user.SavedPosts = kept
	return nil
}

func (m *Memory) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *Memory) GetPost(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, utils.NewNotFoundError("Post")
	}
	return clonePost(post), nil
}

func (m *Memory) GetPostsByAuthor(_ context.Context, authorID uuid.UUID) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collectPosts(func(p *models.Post) bool {
		return p.AuthorID == authorID
	}), nil
}

func (m *Memory) GetPostsByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return m.collectPosts(func(p *models.Post) bool {
		return wanted[p.ID]
	}), nil
}

func (m *Memory) SearchPosts(_ context.Context, query string) ([]*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if query == "" {
		return m.collectPosts(func(*models.Post) bool { return true }), nil
	}

	needle := strings.ToLower(query)
	return m.collectPosts(func(p *models.Post) bool {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			return true
		}
		if strings.Contains(strings.ToLower(p.AuthorUsername), needle) {
			return true
		}
		for _, category := range p.Categories {
			if strings.Contains(strings.ToLower(category), needle) {
				return true
			}
		}
		return false
	}), nil
}

// collectPosts returns matching posts newest first. Callers hold the lock.
func (m *Memory) collectPosts(match func(*models.Post) bool) []*models.Post {
	posts := []*models.Post{}
	for _, post := range m.posts {
		if match(post) {
			posts = append(posts, clonePost(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (m *Memory) UpdatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[post.ID]; !ok {
		return utils.NewNotFoundError("Post")
	}
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *Memory) DeletePost(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return utils.NewNotFoundError("Post")
	}
	delete(m.posts, id)
	return nil
}

func (m *Memory) DeletePostsByAuthor(_ context.Context, authorID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, post := range m.posts {
		if post.AuthorID == authorID {
			delete(m.posts, id)
		}
	}
	return nil
}

func (m *Memory) RenamePostAuthor(_ context.Context, authorID uuid.UUID, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, post := range m.posts {
		if post.AuthorID == authorID {
			post.AuthorUsername = username
		}
	}
	return nil
}

func (m *Memory) CreateComment(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *comment
	m.comments[comment.ID] = &c
	return nil
}

func (m *Memory) GetCommentsByPost(_ context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			c := *comment
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (m *Memory) DeleteCommentsByPost(_ context.Context, postID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
		}
	}
	return nil
}

func (m *Memory) DeleteCommentsByAuthor(_ context.Context, authorID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, comment := range m.comments {
		if comment.AuthorID == authorID {
			delete(m.comments, id)
		}
	}
	return nil
}

func (m *Memory) RenameCommentAuthor(_ context.Context, authorID uuid.UUID, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, comment := range m.comments {
		if comment.AuthorID == authorID {
			comment.AuthorName = username
		}
	}
	return nil
}
