package store

import (
	"context"

	"github.com/arthome/graphpress/errors"
)

func intp(v int) *int { return &v }

// Seed installs deterministic demo fixtures: three users, three posts
// (one unpublished), one comment. Used by `graphpress serve --demo` and
// by tests that want a populated graph without going through mutations.
func Seed(ctx context.Context, s EntityStore) error {
	users := []*User{
		{ID: "1", Name: "Art", Email: "art@home.ee", Age: intp(47)},
		{ID: "2", Name: "Aksel", Email: "aksel@home.ee", Age: intp(9)},
		{ID: "3", Name: "Richard", Email: "richard@home.ee", Age: intp(19)},
	}
	posts := []*Post{
		{ID: "11", Title: "Good morning!", Body: "Beautiful morning today.", Published: true, AuthorID: "1"},
		{ID: "22", Title: "Good afternoon!", Body: "Beautiful afternoon today.", Published: false, AuthorID: "1"},
		{ID: "33", Title: "Good evening!", Body: "", Published: true, AuthorID: "2"},
	}
	comments := []*Comment{
		{ID: "101", Text: "Nice one.", AuthorID: "2", PostID: "11"},
	}

	for _, u := range users {
		if _, err := s.InsertUser(ctx, u); err != nil {
			return errors.Wrap(err, "seed users")
		}
	}
	for _, p := range posts {
		if _, err := s.InsertPost(ctx, p); err != nil {
			return errors.Wrap(err, "seed posts")
		}
	}
	for _, c := range comments {
		if _, err := s.InsertComment(ctx, c); err != nil {
			return errors.Wrap(err, "seed comments")
		}
	}
	return nil
}
