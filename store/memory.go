package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/arthome/graphpress/errors"
)

// MemoryStore is the default EntityStore: indexed in-memory collections.
//
// Insertion order is kept in per-collection id slices; point lookups go
// through id→entity maps and relationship scans through foreign-key
// indices (author→posts, post→comments, author→comments), all maintained
// incrementally on insert/remove. Lookups are O(1) and relationship scans
// O(k) in the number of matches while preserving collection order.
//
// Safe for concurrent use. Readers never observe a half-applied write:
// every method copies entities across the lock boundary.
type MemoryStore struct {
	mu sync.RWMutex

	userOrder []string
	users     map[string]*User
	userEmail map[string]string // lowercased email -> user id

	postOrder     []string
	posts         map[string]*Post
	postsByAuthor map[string][]string

	commentOrder     []string
	comments         map[string]*Comment
	commentsByPost   map[string][]string
	commentsByAuthor map[string][]string
}

// NewMemoryStore creates an empty in-memory entity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:            make(map[string]*User),
		userEmail:        make(map[string]string),
		posts:            make(map[string]*Post),
		postsByAuthor:    make(map[string][]string),
		comments:         make(map[string]*Comment),
		commentsByPost:   make(map[string][]string),
		commentsByAuthor: make(map[string][]string),
	}
}

func newID() string {
	return uuid.New().String()
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// --- users ---

func (s *MemoryStore) InsertUser(_ context.Context, u *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := u.Clone()
	if stored.ID == "" {
		stored.ID = newID()
	} else if _, ok := s.users[stored.ID]; ok {
		return nil, errors.NewConflictError("user id %s already exists", stored.ID)
	}

	s.users[stored.ID] = stored
	s.userOrder = append(s.userOrder, stored.ID)
	s.userEmail[strings.ToLower(stored.Email)] = stored.ID
	return stored.Clone(), nil
}

func (s *MemoryStore) UserByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errors.NewNotFoundError("user %s", id)
	}
	return u.Clone(), nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userEmail[strings.ToLower(email)]
	if !ok {
		return nil, errors.NewNotFoundError("user with email %s", email)
	}
	return s.users[id].Clone(), nil
}

func (s *MemoryStore) Users(_ context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, s.users[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) ReplaceUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.users[u.ID]
	if !ok {
		return errors.NewNotFoundError("user %s", u.ID)
	}
	delete(s.userEmail, strings.ToLower(old.Email))
	stored := u.Clone()
	s.users[u.ID] = stored
	s.userEmail[strings.ToLower(stored.Email)] = u.ID
	return nil
}

func (s *MemoryStore) RemoveUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return errors.NewNotFoundError("user %s", id)
	}
	delete(s.users, id)
	delete(s.userEmail, strings.ToLower(u.Email))
	s.userOrder = removeID(s.userOrder, id)
	// No cascade: the user's posts and comments stay behind.
	return nil
}

// --- posts ---

func (s *MemoryStore) InsertPost(_ context.Context, p *Post) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := p.Clone()
	if stored.ID == "" {
		stored.ID = newID()
	} else if _, ok := s.posts[stored.ID]; ok {
		return nil, errors.NewConflictError("post id %s already exists", stored.ID)
	}

	s.posts[stored.ID] = stored
	s.postOrder = append(s.postOrder, stored.ID)
	s.postsByAuthor[stored.AuthorID] = append(s.postsByAuthor[stored.AuthorID], stored.ID)
	return stored.Clone(), nil
}

func (s *MemoryStore) PostByID(_ context.Context, id string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, errors.NewNotFoundError("post %s", id)
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Posts(_ context.Context) ([]*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Post, 0, len(s.postOrder))
	for _, id := range s.postOrder {
		out = append(out, s.posts[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) PostsByAuthor(_ context.Context, authorID string) ([]*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.postsByAuthor[authorID]
	out := make([]*Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.posts[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) ReplacePost(_ context.Context, p *Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.posts[p.ID]
	if !ok {
		return errors.NewNotFoundError("post %s", p.ID)
	}
	stored := p.Clone()
	if old.AuthorID != stored.AuthorID {
		s.postsByAuthor[old.AuthorID] = removeID(s.postsByAuthor[old.AuthorID], p.ID)
		s.postsByAuthor[stored.AuthorID] = append(s.postsByAuthor[stored.AuthorID], p.ID)
	}
	s.posts[p.ID] = stored
	return nil
}

func (s *MemoryStore) RemovePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return errors.NewNotFoundError("post %s", id)
	}
	delete(s.posts, id)
	s.postOrder = removeID(s.postOrder, id)
	s.postsByAuthor[p.AuthorID] = removeID(s.postsByAuthor[p.AuthorID], id)
	// Comments on the post are not re-checked or removed.
	return nil
}

// --- comments ---

func (s *MemoryStore) InsertComment(_ context.Context, c *Comment) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := c.Clone()
	if stored.ID == "" {
		stored.ID = newID()
	} else if _, ok := s.comments[stored.ID]; ok {
		return nil, errors.NewConflictError("comment id %s already exists", stored.ID)
	}

	s.comments[stored.ID] = stored
	s.commentOrder = append(s.commentOrder, stored.ID)
	s.commentsByPost[stored.PostID] = append(s.commentsByPost[stored.PostID], stored.ID)
	s.commentsByAuthor[stored.AuthorID] = append(s.commentsByAuthor[stored.AuthorID], stored.ID)
	return stored.Clone(), nil
}

func (s *MemoryStore) CommentByID(_ context.Context, id string) (*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, errors.NewNotFoundError("comment %s", id)
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Comments(_ context.Context) ([]*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Comment, 0, len(s.commentOrder))
	for _, id := range s.commentOrder {
		out = append(out, s.comments[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) CommentsByPost(_ context.Context, postID string) ([]*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.commentsByPost[postID]
	out := make([]*Comment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.comments[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) CommentsByAuthor(_ context.Context, authorID string) ([]*Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.commentsByAuthor[authorID]
	out := make([]*Comment, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.comments[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) ReplaceComment(_ context.Context, c *Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.comments[c.ID]
	if !ok {
		return errors.NewNotFoundError("comment %s", c.ID)
	}
	stored := c.Clone()
	if old.PostID != stored.PostID {
		s.commentsByPost[old.PostID] = removeID(s.commentsByPost[old.PostID], c.ID)
		s.commentsByPost[stored.PostID] = append(s.commentsByPost[stored.PostID], c.ID)
	}
	if old.AuthorID != stored.AuthorID {
		s.commentsByAuthor[old.AuthorID] = removeID(s.commentsByAuthor[old.AuthorID], c.ID)
		s.commentsByAuthor[stored.AuthorID] = append(s.commentsByAuthor[stored.AuthorID], c.ID)
	}
	s.comments[c.ID] = stored
	return nil
}

func (s *MemoryStore) RemoveComment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return errors.NewNotFoundError("comment %s", id)
	}
	delete(s.comments, id)
	s.commentOrder = removeID(s.commentOrder, id)
	s.commentsByPost[c.PostID] = removeID(s.commentsByPost[c.PostID], id)
	s.commentsByAuthor[c.AuthorID] = removeID(s.commentsByAuthor[c.AuthorID], id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
