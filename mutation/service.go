// Package mutation validates and applies write operations against the
// entity store, enforcing referential and uniqueness invariants before
// anything is mutated. Mutations are all-or-nothing: every check runs
// before the first store write, so a failing operation leaves no
// partial state behind.
package mutation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/arthome/graphpress/auth"
	"github.com/arthome/graphpress/errors"
	"github.com/arthome/graphpress/logger"
	"github.com/arthome/graphpress/pubsub"
	"github.com/arthome/graphpress/store"
)

// Service is the sole writer of the entity store.
//
// All mutations serialize on one mutex so that validate+apply is a
// critical section: two concurrent CreateUser calls with the same email
// cannot both pass the uniqueness check, and CreateComment cannot
// observe a post as published while a concurrent DeletePost removes it.
// Reads (the resolver) run concurrently against the store's own locking.
type Service struct {
	mu     sync.Mutex
	store  store.EntityStore
	auth   *auth.Service
	router *pubsub.Router
	log    *zap.SugaredLogger
}

// NewService creates the mutation service.
func NewService(st store.EntityStore, authSvc *auth.Service, router *pubsub.Router, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = logger.Logger
	}
	return &Service{store: st, auth: authSvc, router: router, log: log}
}

// CreateUser validates the password policy and email uniqueness, hashes
// the password, inserts the user and issues a session token.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*AuthPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Policy first: the hash step owns the length check.
	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.UserByEmail(ctx, in.Email); err == nil {
		return nil, errors.NewConflictError("email %s is already in use", in.Email)
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	u, err := s.store.InsertUser(ctx, &store.User{
		Name:         in.Name,
		Email:        in.Email,
		Age:          in.Age,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.auth.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}

	s.log.Infow("User created", logger.FieldUserID, u.ID)
	return &AuthPayload{User: u, Token: token}, nil
}

// Login verifies credentials and issues a session token. Both failure
// modes (unknown email, wrong password) return the same generic auth
// error so callers cannot probe which accounts exist.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.store.UserByEmail(ctx, in.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewAuthError()
		}
		return nil, err
	}

	if !s.auth.VerifyPassword(in.Password, u.PasswordHash) {
		return nil, errors.NewAuthError()
	}

	token, err := s.auth.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{User: u, Token: token}, nil
}

// DeleteUser removes a user. Their posts and comments are not touched;
// readers resolve the dangling author as a not-found condition.
func (s *Service) DeleteUser(ctx context.Context, id string) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveUser(ctx, id); err != nil {
		return nil, err
	}

	s.log.Infow("User deleted", logger.FieldUserID, id)
	return u, nil
}

// UpdateUser applies field changes to an existing user. Unknown ids are
// rejected, and an email change keeps the uniqueness invariant.
func (s *Service) UpdateUser(ctx context.Context, id string, patch UserPatch) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != u.Email {
		if other, err := s.store.UserByEmail(ctx, *patch.Email); err == nil && other.ID != id {
			return nil, errors.NewConflictError("email %s is already in use", *patch.Email)
		} else if err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
		u.Email = *patch.Email
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Age != nil {
		u.Age = patch.Age
	}

	if err := s.store.ReplaceUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreatePost inserts a post after checking its author exists.
func (s *Service) CreatePost(ctx context.Context, in CreatePostInput) (*store.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.UserByID(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	p, err := s.store.InsertPost(ctx, &store.Post{
		Title:     in.Title,
		Body:      in.Body,
		Published: in.Published,
		AuthorID:  in.AuthorID,
	})
	if err != nil {
		return nil, err
	}

	s.router.Publish(pubsub.PostEvent(pubsub.ActionCreated, p))
	s.log.Infow("Post created", logger.FieldPostID, p.ID, logger.FieldUserID, p.AuthorID)
	return p, nil
}

// DeletePost removes a post. Its comments stay behind, per the
// creation-time-only integrity model.
func (s *Service) DeletePost(ctx context.Context, id string) (*store.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.PostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemovePost(ctx, id); err != nil {
		return nil, err
	}

	s.router.Publish(pubsub.PostEvent(pubsub.ActionDeleted, p))
	s.log.Infow("Post deleted", logger.FieldPostID, id)
	return p, nil
}

// UpdatePost applies field changes to an existing post. The author
// relation is not re-validated: it was checked at creation time.
func (s *Service) UpdatePost(ctx context.Context, id string, patch PostPatch) (*store.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.PostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Body != nil {
		p.Body = *patch.Body
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}

	if err := s.store.ReplacePost(ctx, p); err != nil {
		return nil, err
	}

	s.router.Publish(pubsub.PostEvent(pubsub.ActionUpdated, p))
	return p, nil
}

// CreateComment inserts a comment after checking the author exists and
// the post exists and is published. Either check failing yields the
// same generic not-found error.
func (s *Service) CreateComment(ctx context.Context, in CreateCommentInput) (*store.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	authorOK := true
	if _, err := s.store.UserByID(ctx, in.AuthorID); err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}
		authorOK = false
	}

	postOK := false
	if p, err := s.store.PostByID(ctx, in.PostID); err == nil {
		postOK = p.Published
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	if !authorOK || !postOK {
		return nil, errors.NewNotFoundError("unable to find user or published post")
	}

	c, err := s.store.InsertComment(ctx, &store.Comment{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
	})
	if err != nil {
		return nil, err
	}

	s.router.Publish(pubsub.CommentEvent(pubsub.ActionCreated, c))
	s.log.Infow("Comment created",
		logger.FieldCommentID, c.ID,
		logger.FieldPostID, c.PostID,
	)
	return c, nil
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, id string) (*store.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.CommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.RemoveComment(ctx, id); err != nil {
		return nil, err
	}

	s.router.Publish(pubsub.CommentEvent(pubsub.ActionDeleted, c))
	s.log.Infow("Comment deleted", logger.FieldCommentID, id)
	return c, nil
}

// UpdateComment applies field changes to an existing comment.
func (s *Service) UpdateComment(ctx context.Context, id string, patch CommentPatch) (*store.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.CommentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Text != nil {
		c.Text = *patch.Text
	}

	if err := s.store.ReplaceComment(ctx, c); err != nil {
		return nil, err
	}

	s.router.Publish(pubsub.CommentEvent(pubsub.ActionUpdated, c))
	return c, nil
}
