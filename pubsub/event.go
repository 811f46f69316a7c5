package pubsub

import (
	"github.com/arthome/graphpress/store"
)

// Action tags what happened to an entity.
type Action string

// Domain event actions.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Kind tags which entity collection an event belongs to.
type Kind string

// Event kinds. User mutations do not publish events; only posts and
// comments drive subscriptions.
const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Event is a notification that an entity was created, updated or
// deleted. The entity snapshot is taken at mutation time: predicates
// evaluate against the state the mutation produced (for deletes, the
// state just before removal).
type Event struct {
	Kind   Kind   `json:"kind"`
	Action Action `json:"action"`
	ID     string `json:"id"`

	Post    *store.Post    `json:"post,omitempty"`
	Comment *store.Comment `json:"comment,omitempty"`
}

// PostEvent builds a post event.
func PostEvent(action Action, p *store.Post) Event {
	return Event{Kind: KindPost, Action: action, ID: p.ID, Post: p}
}

// CommentEvent builds a comment event.
func CommentEvent(action Action, c *store.Comment) Event {
	return Event{Kind: KindComment, Action: action, ID: c.ID, Comment: c}
}
