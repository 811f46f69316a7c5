package mutation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthome/graphpress/auth"
	"github.com/arthome/graphpress/config"
	"github.com/arthome/graphpress/errors"
	"github.com/arthome/graphpress/pubsub"
	"github.com/arthome/graphpress/store"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func testService(t *testing.T) (*Service, store.EntityStore, *pubsub.Router) {
	t.Helper()
	st := store.NewMemoryStore()
	authSvc, err := auth.NewService(&config.AuthConfig{SigningSecret: "test-secret", BcryptCost: 4})
	require.NoError(t, err)
	router := pubsub.NewRouter(nil)
	return NewService(st, authSvc, router, nil), st, router
}

func mustCreateUser(t *testing.T, s *Service, name, email string) *store.User {
	t.Helper()
	payload, err := s.CreateUser(context.Background(), CreateUserInput{
		Name: name, Email: email, Password: "password1",
	})
	require.NoError(t, err)
	return payload.User
}

func TestCreateUserIssuesToken(t *testing.T) {
	s, _, _ := testService(t)

	payload, err := s.CreateUser(context.Background(), CreateUserInput{
		Name: "Art", Email: "art@home.ee", Password: "password1",
	})
	require.NoError(t, err)
	require.NotNil(t, payload.User)
	assert.NotEmpty(t, payload.User.ID)
	assert.NotEmpty(t, payload.Token)
	assert.NotEmpty(t, payload.User.PasswordHash)
	assert.NotEqual(t, "password1", payload.User.PasswordHash)
}

func TestCreateUserPasswordBoundary(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, CreateUserInput{Name: "a", Email: "a@x.ee", Password: "1234567"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = s.CreateUser(ctx, CreateUserInput{Name: "a", Email: "a@x.ee", Password: "12345678"})
	assert.NoError(t, err)
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	s, st, _ := testService(t)
	ctx := context.Background()

	first, err := s.CreateUser(ctx, CreateUserInput{Name: "a", Email: "dup@x.ee", Password: "password1"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, CreateUserInput{Name: "b", Email: "dup@x.ee", Password: "password2"})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	// Failed mutation left no partial state.
	users, err := st.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, first.User.ID, users[0].ID)
}

func TestConcurrentDuplicateCreatesOnlyOneWins(t *testing.T) {
	s, st, _ := testService(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateUser(ctx, CreateUserInput{Name: "r", Email: "race@x.ee", Password: "password1"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.IsConflict(err))
		}
	}
	assert.Equal(t, 1, succeeded)

	users, err := st.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	mustCreateUser(t, s, "Art", "art@home.ee")

	_, errNoAccount := s.Login(ctx, LoginInput{Email: "nobody@home.ee", Password: "password1"})
	_, errWrongPass := s.Login(ctx, LoginInput{Email: "art@home.ee", Password: "wrongpass1"})

	require.Error(t, errNoAccount)
	require.Error(t, errWrongPass)
	assert.True(t, errors.IsAuth(errNoAccount))
	assert.True(t, errors.IsAuth(errWrongPass))
	assert.Equal(t, errNoAccount.Error(), errWrongPass.Error())
}

func TestLoginSucceedsWithCorrectCredentials(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "Art", "art@home.ee")

	payload, err := s.Login(ctx, LoginInput{Email: "art@home.ee", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, payload.User.ID)
	assert.NotEmpty(t, payload.Token)
}

func TestDeleteUserNoCascade(t *testing.T) {
	s, st, _ := testService(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "Art", "art@home.ee")

	p, err := s.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b", Published: true, AuthorID: u.ID})
	require.NoError(t, err)

	_, err = s.DeleteUser(ctx, u.ID)
	require.NoError(t, err)

	// The post survives its author.
	got, err := st.PostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.AuthorID)

	_, err = s.DeleteUser(ctx, u.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateUserUnknownIDRejected(t *testing.T) {
	s, _, _ := testService(t)
	_, err := s.UpdateUser(context.Background(), "ghost", UserPatch{Name: strp("x")})
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateUserEmailKeepsUniqueness(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	mustCreateUser(t, s, "Art", "art@home.ee")
	b := mustCreateUser(t, s, "Aksel", "aksel@home.ee")

	_, err := s.UpdateUser(ctx, b.ID, UserPatch{Email: strp("art@home.ee")})
	assert.True(t, errors.IsConflict(err))

	updated, err := s.UpdateUser(ctx, b.ID, UserPatch{Email: strp("aksel2@home.ee"), Name: strp("Aksel II")})
	require.NoError(t, err)
	assert.Equal(t, "aksel2@home.ee", updated.Email)
	assert.Equal(t, "Aksel II", updated.Name)
}

func TestCreatePostRequiresAuthor(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()

	_, err := s.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b", AuthorID: "ghost"})
	assert.True(t, errors.IsNotFound(err))
}

func TestCreateCommentRequiresPublishedPost(t *testing.T) {
	s, _, _ := testService(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "Art", "art@home.ee")

	draft, err := s.CreatePost(ctx, CreatePostInput{Title: "d", Body: "b", Published: false, AuthorID: u.ID})
	require.NoError(t, err)

	// Author exists, post unpublished: still the generic not-found.
	_, errDraft := s.CreateComment(ctx, CreateCommentInput{Text: "x", AuthorID: u.ID, PostID: draft.ID})
	require.Error(t, errDraft)
	assert.True(t, errors.IsNotFound(errDraft))

	// Missing author, published post: same error.
	published, err := s.CreatePost(ctx, CreatePostInput{Title: "p", Body: "b", Published: true, AuthorID: u.ID})
	require.NoError(t, err)
	_, errNoAuthor := s.CreateComment(ctx, CreateCommentInput{Text: "x", AuthorID: "ghost", PostID: published.ID})
	require.Error(t, errNoAuthor)
	assert.Equal(t, errDraft.Error(), errNoAuthor.Error())

	// Both present and published: succeeds.
	c, err := s.CreateComment(ctx, CreateCommentInput{Text: "x", AuthorID: u.ID, PostID: published.ID})
	require.NoError(t, err)
	assert.Equal(t, published.ID, c.PostID)
}

func TestDeleteCommentActuallyDeletes(t *testing.T) {
	s, st, _ := testService(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "Art", "art@home.ee")
	p, err := s.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b", Published: true, AuthorID: u.ID})
	require.NoError(t, err)
	c, err := s.CreateComment(ctx, CreateCommentInput{Text: "x", AuthorID: u.ID, PostID: p.ID})
	require.NoError(t, err)

	_, err = s.DeleteComment(ctx, c.ID)
	require.NoError(t, err)

	_, err = st.CommentByID(ctx, c.ID)
	assert.True(t, errors.IsNotFound(err))

	_, err = s.DeleteComment(ctx, c.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdatePostPublishes(t *testing.T) {
	s, _, router := testService(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "Art", "art@home.ee")
	p, err := s.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b", Published: false, AuthorID: u.ID})
	require.NoError(t, err)

	sub := router.SubscribePosts()
	defer sub.Cancel()

	updated, err := s.UpdatePost(ctx, p.ID, PostPatch{Published: boolp(true), Title: strp("now live")})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, "now live", updated.Title)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, pubsub.ActionUpdated, ev.Action)
		assert.Equal(t, p.ID, ev.ID)
	case <-time.After(time.Second):
		t.Fatal("expected post event after publish")
	}
}

func TestCommentSubscriptionSeesOnlyItsPost(t *testing.T) {
	s, _, router := testService(t)
	ctx := context.Background()
	u := mustCreateUser(t, s, "Aksel", "aksel@home.ee")

	p22, err := s.CreatePost(ctx, CreatePostInput{Title: "22", Body: "b", Published: true, AuthorID: u.ID})
	require.NoError(t, err)
	other, err := s.CreatePost(ctx, CreatePostInput{Title: "other", Body: "b", Published: true, AuthorID: u.ID})
	require.NoError(t, err)

	sub := router.SubscribeComments(p22.ID)
	defer sub.Cancel()

	c, err := s.CreateComment(ctx, CreateCommentInput{Text: "x", AuthorID: u.ID, PostID: p22.ID})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, CreateCommentInput{Text: "y", AuthorID: u.ID, PostID: other.ID})
	require.NoError(t, err)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, c.ID, ev.ID)
		assert.Equal(t, pubsub.ActionCreated, ev.Action)
	case <-time.After(time.Second):
		t.Fatal("expected comment event for subscribed post")
	}

	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %q for other post", ev.ID)
	default:
	}
}

func TestFailedMutationPublishesNothing(t *testing.T) {
	s, _, router := testService(t)
	ctx := context.Background()

	sub := router.SubscribePosts()
	defer sub.Cancel()

	_, err := s.CreatePost(ctx, CreatePostInput{Title: "t", Body: "b", Published: true, AuthorID: "ghost"})
	require.Error(t, err)

	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %q from failed mutation", ev.ID)
	default:
	}
}
