package mutation

import (
	"github.com/arthome/graphpress/store"
)

// Per-operation input structs. The front end validates shape (required
// fields present, types correct) before these reach the service; the
// service owns policy and integrity checks.

// CreateUserInput carries the fields of a create-user mutation.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      *int   `json:"age,omitempty"`
	Password string `json:"password"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserPatch holds optional field changes for an update-user mutation.
// Nil fields are left unchanged.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Age   *int    `json:"age,omitempty"`
}

// CreatePostInput carries the fields of a create-post mutation.
type CreatePostInput struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	AuthorID  string `json:"author_id"`
}

// PostPatch holds optional field changes for an update-post mutation.
// AuthorID is deliberately absent: authorship is fixed at creation and
// never re-validated on update.
type PostPatch struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// CreateCommentInput carries the fields of a create-comment mutation.
type CreateCommentInput struct {
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
	PostID   string `json:"post_id"`
}

// CommentPatch holds optional field changes for an update-comment mutation.
type CommentPatch struct {
	Text *string `json:"text,omitempty"`
}

// AuthPayload is returned by mutations that establish a session.
type AuthPayload struct {
	User  *store.User `json:"user"`
	Token string      `json:"token"`
}
