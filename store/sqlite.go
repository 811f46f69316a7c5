package store

import (
	"context"
	"database/sql"

	"github.com/arthome/graphpress/errors"
)

// SQLiteStore is the durable EntityStore, backed by the schema in
// db/sqlite/migrations. Insertion order is the AUTOINCREMENT seq column.
// The schema carries no foreign keys on purpose: integrity checks are
// creation-time only and belong to the mutation service.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an opened and migrated database handle.
func NewSQLiteStore(sqlDB *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: sqlDB}
}

func (s *SQLiteStore) insertID(id string) string {
	if id == "" {
		return newID()
	}
	return id
}

// --- users ---

func (s *SQLiteStore) InsertUser(ctx context.Context, u *User) (*User, error) {
	stored := u.Clone()
	stored.ID = s.insertID(stored.ID)

	var age sql.NullInt64
	if stored.Age != nil {
		age = sql.NullInt64{Int64: int64(*stored.Age), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, age, password_hash) VALUES (?, ?, ?, ?, ?)",
		stored.ID, stored.Name, stored.Email, age, stored.PasswordHash,
	)
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "insert user")
	}
	return stored, nil
}

func (s *SQLiteStore) scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	u := &User{}
	var age sql.NullInt64
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &age, &u.PasswordHash); err != nil {
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	return u, nil
}

func (s *SQLiteStore) UserByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, age, password_hash FROM users WHERE id = ?", id)
	u, err := s.scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("user %s", id)
	}
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "query user by id")
	}
	return u, nil
}

func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, age, password_hash FROM users WHERE email = ? COLLATE NOCASE", email)
	u, err := s.scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("user with email %s", email)
	}
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "query user by email")
	}
	return u, nil
}

func (s *SQLiteStore) Users(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, age, password_hash FROM users ORDER BY seq")
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "query users")
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, errors.NewInfrastructureError(err, "scan user")
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInfrastructureError(err, "iterate users")
	}
	return out, nil
}

func (s *SQLiteStore) ReplaceUser(ctx context.Context, u *User) error {
	var age sql.NullInt64
	if u.Age != nil {
		age = sql.NullInt64{Int64: int64(*u.Age), Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, age = ?, password_hash = ? WHERE id = ?",
		u.Name, u.Email, age, u.PasswordHash, u.ID,
	)
	if err != nil {
		return errors.NewInfrastructureError(err, "replace user")
	}
	return s.requireRow(res, "user %s", u.ID)
}

func (s *SQLiteStore) RemoveUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return errors.NewInfrastructureError(err, "remove user")
	}
	return s.requireRow(res, "user %s", id)
}

// --- posts ---

func (s *SQLiteStore) InsertPost(ctx context.Context, p *Post) (*Post, error) {
	stored := p.Clone()
	stored.ID = s.insertID(stored.ID)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (id, title, body, published, author_id) VALUES (?, ?, ?, ?, ?)",
		stored.ID, stored.Title, stored.Body, stored.Published, stored.AuthorID,
	)
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "insert post")
	}
	return stored, nil
}

func (s *SQLiteStore) scanPost(row interface{ Scan(...interface{}) error }) (*Post, error) {
	p := &Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.Published, &p.AuthorID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteStore) PostByID(ctx context.Context, id string) (*Post, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, body, published, author_id FROM posts WHERE id = ?", id)
	p, err := s.scanPost(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("post %s", id)
	}
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "query post by id")
	}
	return p, nil
}

func (s *SQLiteStore) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "query posts")
	}
	defer rows.Close()

	var out []*Post
	for rows.Next() {
		p, err := s.scanPost(rows)
		if err != nil {
			return nil, errors.NewInfrastructureError(err, "scan post")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInfrastructureError(err, "iterate posts")
	}
	return out, nil
}

func (s *SQLiteStore) Posts(ctx context.Context) ([]*Post, error) {
	return s.queryPosts(ctx,
		"SELECT id, title, body, published, author_id FROM posts ORDER BY seq")
}

func (s *SQLiteStore) PostsByAuthor(ctx context.Context, authorID string) ([]*Post, error) {
	return s.queryPosts(ctx,
		"SELECT id, title, body, published, author_id FROM posts WHERE author_id = ? ORDER BY seq", authorID)
}

func (s *SQLiteStore) ReplacePost(ctx context.Context, p *Post) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET title = ?, body = ?, published = ?, author_id = ? WHERE id = ?",
		p.Title, p.Body, p.Published, p.AuthorID, p.ID,
	)
	if err != nil {
		return errors.NewInfrastructureError(err, "replace post")
	}
	return s.requireRow(res, "post %s", p.ID)
}

func (s *SQLiteStore) RemovePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return errors.NewInfrastructureError(err, "remove post")
	}
	return s.requireRow(res, "post %s", id)
}

// --- comments ---

func (s *SQLiteStore) InsertComment(ctx context.Context, c *Comment) (*Comment, error) {
	stored := c.Clone()
	stored.ID = s.insertID(stored.ID)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (id, text, author_id, post_id) VALUES (?, ?, ?, ?)",
		stored.ID, stored.Text, stored.AuthorID, stored.PostID,
	)
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "insert comment")
	}
	return stored, nil
}

func (s *SQLiteStore) scanComment(row interface{ Scan(...interface{}) error }) (*Comment, error) {
	c := &Comment{}
	if err := row.Scan(&c.ID, &c.Text, &c.AuthorID, &c.PostID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *SQLiteStore) CommentByID(ctx context.Context, id string) (*Comment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, text, author_id, post_id FROM comments WHERE id = ?", id)
	c, err := s.scanComment(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("comment %s", id)
	}
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "query comment by id")
	}
	return c, nil
}

func (s *SQLiteStore) queryComments(ctx context.Context, query string, args ...interface{}) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInfrastructureError(err, "query comments")
	}
	defer rows.Close()

	var out []*Comment
	for rows.Next() {
		c, err := s.scanComment(rows)
		if err != nil {
			return nil, errors.NewInfrastructureError(err, "scan comment")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInfrastructureError(err, "iterate comments")
	}
	return out, nil
}

func (s *SQLiteStore) Comments(ctx context.Context) ([]*Comment, error) {
	return s.queryComments(ctx,
		"SELECT id, text, author_id, post_id FROM comments ORDER BY seq")
}

func (s *SQLiteStore) CommentsByPost(ctx context.Context, postID string) ([]*Comment, error) {
	return s.queryComments(ctx,
		"SELECT id, text, author_id, post_id FROM comments WHERE post_id = ? ORDER BY seq", postID)
}

func (s *SQLiteStore) CommentsByAuthor(ctx context.Context, authorID string) ([]*Comment, error) {
	return s.queryComments(ctx,
		"SELECT id, text, author_id, post_id FROM comments WHERE author_id = ? ORDER BY seq", authorID)
}

func (s *SQLiteStore) ReplaceComment(ctx context.Context, c *Comment) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE comments SET text = ?, author_id = ?, post_id = ? WHERE id = ?",
		c.Text, c.AuthorID, c.PostID, c.ID,
	)
	if err != nil {
		return errors.NewInfrastructureError(err, "replace comment")
	}
	return s.requireRow(res, "comment %s", c.ID)
}

func (s *SQLiteStore) RemoveComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return errors.NewInfrastructureError(err, "remove comment")
	}
	return s.requireRow(res, "comment %s", id)
}

// requireRow converts a zero-row write into a not-found error.
func (s *SQLiteStore) requireRow(res sql.Result, format string, args ...interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewInfrastructureError(err, "rows affected")
	}
	if n == 0 {
		return errors.NewNotFoundError(format, args...)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
