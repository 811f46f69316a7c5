// Package store owns the three entity collections of the content graph.
//
// The EntityStore interface is the only way any other component touches
// entities: the resolver reads through it, the mutation service is its
// sole writer. Two implementations exist: MemoryStore (default, indexed
// in-memory collections) and SQLiteStore (durable, for deployments that
// outlive the process).
package store

import (
	"context"
)

// EntityStore provides lookup, scan, insert, replace and remove
// primitives over the User, Post and Comment collections.
//
// Insert assigns a fresh unique id when the entity's ID field is empty;
// a caller-provided id is honored (and rejected on duplicates) so tests
// and seed fixtures can use stable identifiers. Insertion order is
// preserved and observable: every listing method returns entities in the
// order they were inserted.
//
// Remove does not cascade. Removing a user leaves their posts and
// comments in place; resolving the dangling author is the reader's
// problem (surfaced as a not-found condition, never a crash).
type EntityStore interface {
	InsertUser(ctx context.Context, u *User) (*User, error)
	UserByID(ctx context.Context, id string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	Users(ctx context.Context) ([]*User, error)
	ReplaceUser(ctx context.Context, u *User) error
	RemoveUser(ctx context.Context, id string) error

	InsertPost(ctx context.Context, p *Post) (*Post, error)
	PostByID(ctx context.Context, id string) (*Post, error)
	Posts(ctx context.Context) ([]*Post, error)
	PostsByAuthor(ctx context.Context, authorID string) ([]*Post, error)
	ReplacePost(ctx context.Context, p *Post) error
	RemovePost(ctx context.Context, id string) error

	InsertComment(ctx context.Context, c *Comment) (*Comment, error)
	CommentByID(ctx context.Context, id string) (*Comment, error)
	Comments(ctx context.Context) ([]*Comment, error)
	CommentsByPost(ctx context.Context, postID string) ([]*Comment, error)
	CommentsByAuthor(ctx context.Context, authorID string) ([]*Comment, error)
	ReplaceComment(ctx context.Context, c *Comment) error
	RemoveComment(ctx context.Context, id string) error

	Close() error
}
