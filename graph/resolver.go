// Package graph computes relationship fields of the content graph on
// demand. Every non-scalar field is resolved lazily from the current
// store state at resolution time: no caching, no materialized relations.
// The front end invokes these resolvers recursively when a result object
// exposes fields that are themselves relationships.
package graph

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/arthome/graphpress/auth"
	"github.com/arthome/graphpress/errors"
	"github.com/arthome/graphpress/logger"
	"github.com/arthome/graphpress/store"
)

// Resolver reads the entity store; it never writes.
type Resolver struct {
	store store.EntityStore
	auth  *auth.Service
	log   *zap.SugaredLogger
}

// NewResolver creates a resolver over the given store. The auth service
// is only consulted by Me.
func NewResolver(st store.EntityStore, authSvc *auth.Service, log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = logger.Logger
	}
	return &Resolver{store: st, auth: authSvc, log: log}
}

// Users returns all users in store order, or, when a query is given,
// users whose name contains it as a case-insensitive substring.
func (r *Resolver) Users(ctx context.Context, query *string) ([]*store.User, error) {
	users, err := r.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	if query == nil || *query == "" {
		return users, nil
	}

	needle := strings.ToLower(*query)
	matched := users[:0]
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// Posts returns all posts in store order, or, when a query is given,
// posts whose title or body contains it as a case-insensitive substring.
func (r *Resolver) Posts(ctx context.Context, query *string) ([]*store.Post, error) {
	posts, err := r.store.Posts(ctx)
	if err != nil {
		return nil, err
	}
	if query == nil || *query == "" {
		return posts, nil
	}

	needle := strings.ToLower(*query)
	matched := posts[:0]
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Body), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Comments returns all comments, unfiltered, in store order.
func (r *Resolver) Comments(ctx context.Context) ([]*store.Comment, error) {
	return r.store.Comments(ctx)
}

// Me resolves the caller's own user from the bearer token the front end
// attached to the context. A missing or invalid token is an auth
// failure; a valid token for a since-deleted user is not found.
func (r *Resolver) Me(ctx context.Context) (*store.User, error) {
	token, ok := auth.TokenFromContext(ctx)
	if !ok {
		return nil, errors.NewAuthError()
	}
	userID, err := r.auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	return r.store.UserByID(ctx, userID)
}

// Post is the single-post accessor: the first published post in store
// order, not found when there is none.
func (r *Resolver) Post(ctx context.Context) (*store.Post, error) {
	posts, err := r.store.Posts(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.Published {
			return p, nil
		}
	}
	return nil, errors.NewNotFoundError("no published posts")
}

// PostAuthor resolves a post's author. A dangling AuthorID (the author
// was deleted after the post was created) is a not-found condition.
func (r *Resolver) PostAuthor(ctx context.Context, p *store.Post) (*store.User, error) {
	u, err := r.store.UserByID(ctx, p.AuthorID)
	if errors.IsNotFound(err) {
		r.log.Debugw("Post has dangling author",
			logger.FieldPostID, p.ID,
			logger.FieldUserID, p.AuthorID,
		)
	}
	return u, err
}

// PostComments resolves all comments on a post, in store order.
func (r *Resolver) PostComments(ctx context.Context, p *store.Post) ([]*store.Comment, error) {
	return r.store.CommentsByPost(ctx, p.ID)
}

// UserPosts resolves all posts authored by a user, in store order.
func (r *Resolver) UserPosts(ctx context.Context, u *store.User) ([]*store.Post, error) {
	return r.store.PostsByAuthor(ctx, u.ID)
}

// UserComments resolves all comments written by a user, in store order.
func (r *Resolver) UserComments(ctx context.Context, u *store.User) ([]*store.Comment, error) {
	return r.store.CommentsByAuthor(ctx, u.ID)
}

// CommentAuthor resolves a comment's author; dangling is not found.
func (r *Resolver) CommentAuthor(ctx context.Context, c *store.Comment) (*store.User, error) {
	return r.store.UserByID(ctx, c.AuthorID)
}

// CommentPost resolves the post a comment was made on. The post may be
// gone or unpublished by now; only existence matters here.
func (r *Resolver) CommentPost(ctx context.Context, c *store.Comment) (*store.Post, error) {
	return r.store.PostByID(ctx, c.PostID)
}
