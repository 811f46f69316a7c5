package server

import (
	"net/http"

	"github.com/arthome/graphpress/logger"
	"github.com/arthome/graphpress/mutation"
	"github.com/arthome/graphpress/version"
)

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleVersion reports build information.
func (s *Server) HandleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

// HandleUsers lists users, optionally filtered by a case-insensitive
// name substring (?query=).
func (s *Server) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.resolver.Users(r.Context(), optionalQuery(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandlePosts lists posts, optionally filtered by a title-or-body
// substring (?query=).
func (s *Server) HandlePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.resolver.Posts(r.Context(), optionalQuery(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HandleComments lists all comments.
func (s *Server) HandleComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.resolver.Comments(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// HandleMe resolves the authenticated user from the bearer token that
// the auth middleware attached to the request context.
func (s *Server) HandleMe(w http.ResponseWriter, r *http.Request) {
	me, err := s.resolver.Me(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}

// HandlePost returns the featured post.
func (s *Server) HandlePost(w http.ResponseWriter, r *http.Request) {
	p, err := s.resolver.Post(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleCreateUser registers a user and returns the auth payload.
func (s *Server) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in mutation.CreateUserInput
	if err := readJSON(w, r, &in); err != nil {
		return
	}
	payload, err := s.mutations.CreateUser(r.Context(), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

// HandleLogin exchanges credentials for an auth payload.
func (s *Server) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in mutation.LoginInput
	if err := readJSON(w, r, &in); err != nil {
		return
	}
	payload, err := s.mutations.Login(r.Context(), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// HandleUpdateUser applies a partial update to a user.
func (s *Server) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch mutation.UserPatch
	if err := readJSON(w, r, &patch); err != nil {
		return
	}
	u, err := s.mutations.UpdateUser(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleDeleteUser removes a user and returns the removed entity.
func (s *Server) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.mutations.DeleteUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleCreatePost creates a post.
func (s *Server) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in mutation.CreatePostInput
	if err := readJSON(w, r, &in); err != nil {
		return
	}
	p, err := s.mutations.CreatePost(r.Context(), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	s.log.Debugw("Post created via API", logger.FieldPostID, p.ID)
	writeJSON(w, http.StatusCreated, p)
}

// HandleUpdatePost applies a partial update to a post.
func (s *Server) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var patch mutation.PostPatch
	if err := readJSON(w, r, &patch); err != nil {
		return
	}
	p, err := s.mutations.UpdatePost(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDeletePost removes a post and returns the removed entity.
func (s *Server) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	p, err := s.mutations.DeletePost(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleCreateComment creates a comment on a published post.
func (s *Server) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	var in mutation.CreateCommentInput
	if err := readJSON(w, r, &in); err != nil {
		return
	}
	c, err := s.mutations.CreateComment(r.Context(), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleUpdateComment applies a partial update to a comment.
func (s *Server) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var patch mutation.CommentPatch
	if err := readJSON(w, r, &patch); err != nil {
		return
	}
	c, err := s.mutations.UpdateComment(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleDeleteComment removes a comment and returns the removed entity.
func (s *Server) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	c, err := s.mutations.DeleteComment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
