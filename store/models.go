package store

// User is an account holder in the content graph.
// PasswordHash is never serialized to clients.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Age          *int   `json:"age,omitempty"`
	PasswordHash string `json:"-"`
}

// Post is an article authored by a User. AuthorID must reference a User
// that existed when the post was created; it is not re-validated later.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	AuthorID  string `json:"author_id"`
}

// Comment is attached to a Post by a User. PostID must reference a post
// that was published when the comment was created; the comment persists
// even if the post is later unpublished or removed.
type Comment struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	AuthorID string `json:"author_id"`
	PostID   string `json:"post_id"`
}

// Clone returns a deep copy so callers can hand entities across goroutine
// boundaries without sharing store-owned memory.
func (u *User) Clone() *User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	return &c
}

// Clone returns a copy of the post.
func (p *Post) Clone() *Post {
	c := *p
	return &c
}

// Clone returns a copy of the comment.
func (c *Comment) Clone() *Comment {
	cc := *c
	return &cc
}
