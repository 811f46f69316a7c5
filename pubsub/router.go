// Package pubsub filters a stream of domain events per active
// subscription and delivers matching events in mutation order.
package pubsub

import (
	"sync"

	"go.uber.org/zap"

	"github.com/arthome/graphpress/logger"
)

// SubscriberBufferSize is the per-subscriber channel buffer. A
// subscriber that falls this far behind starts losing events rather
// than stalling the mutation path.
const SubscriberBufferSize = 100

// Router fans domain events out to active subscriptions. Publish never
// blocks on a slow subscriber and cancellation is safe to invoke
// concurrently with in-flight dispatch.
type Router struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
	log  *zap.SugaredLogger
}

// NewRouter creates an empty subscription router.
func NewRouter(log *zap.SugaredLogger) *Router {
	if log == nil {
		log = logger.Logger
	}
	return &Router{
		subs: make(map[*Subscription]struct{}),
		log:  log,
	}
}

// Subscription is one active event filter with its delivery channel.
type Subscription struct {
	router *Router
	pred   func(Event) bool
	events chan Event
	once   sync.Once
}

// Events returns the delivery channel. It yields matching events in the
// order mutations were applied and is closed by Cancel.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Cancel stops delivery and releases the registration. Events still
// buffered at cancellation time are discarded, so nothing is delivered
// afterwards. Safe to call multiple times and concurrently with Publish.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.router.mu.Lock()
		defer s.router.mu.Unlock()
		delete(s.router.subs, s)
		// Drain before closing: the lock keeps publishers out, so once
		// the buffer is empty the receiver sees only the close.
		for {
			select {
			case <-s.events:
			default:
				close(s.events)
				return
			}
		}
	})
}

func (r *Router) subscribe(pred func(Event) bool) *Subscription {
	sub := &Subscription{
		router: r,
		pred:   pred,
		events: make(chan Event, SubscriberBufferSize),
	}
	r.mu.Lock()
	r.subs[sub] = struct{}{}
	count := len(r.subs)
	r.mu.Unlock()

	r.log.Debugw("Subscription opened", logger.FieldSubscribers, count)
	return sub
}

// SubscribeComments delivers comment events whose comment belongs to the
// given post, matched on the comment's own PostID field.
func (r *Router) SubscribeComments(postID string) *Subscription {
	return r.subscribe(func(ev Event) bool {
		return ev.Kind == KindComment && ev.Comment != nil && ev.Comment.PostID == postID
	})
}

// SubscribePosts delivers post events for posts that are published at
// the time of the event.
func (r *Router) SubscribePosts() *Subscription {
	return r.subscribe(func(ev Event) bool {
		return ev.Kind == KindPost && ev.Post != nil && ev.Post.Published
	})
}

// Publish dispatches an event to every subscription whose predicate
// matches. Sends are non-blocking: a full subscriber buffer drops the
// event for that subscriber only.
func (r *Router) Publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for sub := range r.subs {
		if !sub.pred(ev) {
			continue
		}
		select {
		case sub.events <- ev:
		default:
			r.log.Warnw("Subscriber buffer full, dropping event",
				logger.FieldEventKind, string(ev.Kind),
				logger.FieldEventAction, string(ev.Action),
			)
		}
	}
}

// Close cancels every active subscription. Used at server shutdown.
func (r *Router) Close() {
	r.mu.Lock()
	subs := make([]*Subscription, 0, len(r.subs))
	for sub := range r.subs {
		subs = append(subs, sub)
	}
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}
