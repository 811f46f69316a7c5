package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthome/graphpress/db"
	"github.com/arthome/graphpress/errors"
)

// testStores returns every EntityStore implementation under a name, so
// the contract suite runs identically against memory and SQLite.
func testStores(t *testing.T) map[string]EntityStore {
	t.Helper()

	sqlDB, err := db.Open(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(sqlDB, nil))

	stores := map[string]EntityStore{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(sqlDB),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestInsertGeneratesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			a, err := s.InsertUser(ctx, &User{Name: "a", Email: "a@x.ee"})
			require.NoError(t, err)
			b, err := s.InsertUser(ctx, &User{Name: "b", Email: "b@x.ee"})
			require.NoError(t, err)

			assert.NotEmpty(t, a.ID)
			assert.NotEmpty(t, b.ID)
			assert.NotEqual(t, a.ID, b.ID)
		})
	}
}

func TestInsertHonorsCallerID(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			u, err := s.InsertUser(ctx, &User{ID: "fixed", Name: "a", Email: "a@x.ee"})
			require.NoError(t, err)
			assert.Equal(t, "fixed", u.ID)

			got, err := s.UserByID(ctx, "fixed")
			require.NoError(t, err)
			assert.Equal(t, "a", got.Name)
		})
	}
}

func TestListingsPreserveInsertionOrder(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Seed(ctx, s))

			users, err := s.Users(ctx)
			require.NoError(t, err)
			require.Len(t, users, 3)
			assert.Equal(t, []string{"1", "2", "3"}, []string{users[0].ID, users[1].ID, users[2].ID})

			posts, err := s.PostsByAuthor(ctx, "1")
			require.NoError(t, err)
			require.Len(t, posts, 2)
			assert.Equal(t, "11", posts[0].ID)
			assert.Equal(t, "22", posts[1].ID)
		})
	}
}

func TestLookupsNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.UserByID(ctx, "nope")
			assert.True(t, errors.IsNotFound(err))

			_, err = s.UserByEmail(ctx, "nobody@x.ee")
			assert.True(t, errors.IsNotFound(err))

			_, err = s.PostByID(ctx, "nope")
			assert.True(t, errors.IsNotFound(err))

			_, err = s.CommentByID(ctx, "nope")
			assert.True(t, errors.IsNotFound(err))
		})
	}
}

func TestEmailLookupIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.InsertUser(ctx, &User{Name: "Art", Email: "Art@Home.ee"})
			require.NoError(t, err)

			got, err := s.UserByEmail(ctx, "art@home.ee")
			require.NoError(t, err)
			assert.Equal(t, "Art", got.Name)
		})
	}
}

func TestRemoveUserDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Seed(ctx, s))
			require.NoError(t, s.RemoveUser(ctx, "1"))

			_, err := s.UserByID(ctx, "1")
			assert.True(t, errors.IsNotFound(err))

			// The removed user's posts stay behind.
			posts, err := s.PostsByAuthor(ctx, "1")
			require.NoError(t, err)
			assert.Len(t, posts, 2)
		})
	}
}

func TestReplaceUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Seed(ctx, s))

			p, err := s.PostByID(ctx, "22")
			require.NoError(t, err)
			p.Published = true
			require.NoError(t, s.ReplacePost(ctx, p))

			got, err := s.PostByID(ctx, "22")
			require.NoError(t, err)
			assert.True(t, got.Published)

			// Order is unchanged by replacement.
			posts, err := s.PostsByAuthor(ctx, "1")
			require.NoError(t, err)
			assert.Equal(t, "11", posts[0].ID)
			assert.Equal(t, "22", posts[1].ID)
		})
	}
}

func TestReplaceMissingEntityFails(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.ReplaceUser(ctx, &User{ID: "ghost", Name: "x", Email: "x@x.ee"})
			assert.True(t, errors.IsNotFound(err))

			err = s.RemovePost(ctx, "ghost")
			assert.True(t, errors.IsNotFound(err))
		})
	}
}

func TestCommentIndices(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Seed(ctx, s))

			byPost, err := s.CommentsByPost(ctx, "11")
			require.NoError(t, err)
			require.Len(t, byPost, 1)
			assert.Equal(t, "101", byPost[0].ID)

			byAuthor, err := s.CommentsByAuthor(ctx, "2")
			require.NoError(t, err)
			require.Len(t, byAuthor, 1)

			empty, err := s.CommentsByPost(ctx, "22")
			require.NoError(t, err)
			assert.Empty(t, empty)

			require.NoError(t, s.RemoveComment(ctx, "101"))
			byPost, err = s.CommentsByPost(ctx, "11")
			require.NoError(t, err)
			assert.Empty(t, byPost)
		})
	}
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, Seed(ctx, s))

	u, err := s.UserByID(ctx, "1")
	require.NoError(t, err)
	u.Name = "mutated"

	again, err := s.UserByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Art", again.Name)
}
