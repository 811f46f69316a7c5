package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arthome/graphpress/logger"
	"github.com/arthome/graphpress/pubsub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second
)

// upgrader creates a WebSocket upgrader with origin checking from config.
func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Direct WebSocket clients send no Origin header.
			if origin == "" {
				return true
			}
			return s.originAllowed(origin)
		},
	}
}

// HandleSubscribePosts streams events for published posts over a
// WebSocket connection.
func (s *Server) HandleSubscribePosts(w http.ResponseWriter, r *http.Request) {
	sub := s.router.SubscribePosts()
	s.serveSubscription(w, r, sub)
}

// HandleSubscribeComments streams comment events for the post named by
// the required post_id parameter.
func (s *Server) HandleSubscribeComments(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("post_id")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "post_id is required")
		return
	}
	sub := s.router.SubscribeComments(postID)
	s.serveSubscription(w, r, sub)
}

// serveSubscription upgrades the connection and pumps subscription
// events to the peer as JSON messages until either side goes away.
func (s *Server) serveSubscription(w http.ResponseWriter, r *http.Request, sub *pubsub.Subscription) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Cancel()
		s.log.Warnw("WebSocket upgrade failed", logger.FieldError, err)
		return
	}

	s.log.Debugw("Subscription opened", logger.FieldPath, r.URL.Path)

	// Read pump: discard inbound messages, keep the pong deadline fresh,
	// and cancel the subscription when the peer disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.Cancel()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				// Router closed during shutdown.
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				s.log.Debugw("Subscription write failed", logger.FieldError, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
