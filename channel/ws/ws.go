// Package ws bridges a channel.Subscriber to WebSocket clients. Each
// connection subscribes to one session topic and receives progress events
// as JSON frames until the run ends or the client disconnects.
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/promptforge/refinery/channel"
	"github.com/promptforge/refinery/core"
	"github.com/promptforge/refinery/logging"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	pongTimeout  = 60 * time.Second
)

// Options configures the Handler.
type Options struct {
	// CheckOrigin overrides the upgrader origin check. Defaults to
	// allowing all origins; restrict this in production deployments.
	CheckOrigin func(r *http.Request) bool
	Logger      logging.Logger
}

// Handler upgrades HTTP requests to WebSocket connections and streams
// progress events for the session named in the "session" query parameter.
type Handler struct {
	subscriber channel.Subscriber
	upgrader   websocket.Upgrader
	logger     logging.Logger
}

// NewHandler constructs a Handler backed by sub.
func NewHandler(sub channel.Subscriber, optFns ...func(o *Options)) *Handler {
	opts := Options{
		CheckOrigin: func(*http.Request) bool { return true },
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Handler{
		subscriber: sub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		logger: opts.Logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session parameter", http.StatusBadRequest)
		return
	}

	sub, err := h.subscriber.Subscribe(core.Topic(sessionID))
	if err != nil {
		http.Error(w, "subscription unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Cancel()
		h.logger.Warn("websocket upgrade failed", "error", err, "sessionID", sessionID)
		return
	}

	h.logger.Debug("websocket client attached", "sessionID", sessionID)
	go h.readPump(conn, sub)
	h.writePump(conn, sub, sessionID)
}

// readPump drains client frames so close and pong handling work. Any
// inbound payload is ignored; the stream is one-way.
func (h *Handler) readPump(conn *websocket.Conn, sub *channel.Subscription) {
	defer sub.Cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards subscription events to the client until the
// subscription closes or a write fails.
func (h *Handler) writePump(conn *websocket.Conn, sub *channel.Subscription, sessionID string) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		sub.Cancel()
		_ = conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("websocket write failed", "error", err, "sessionID", sessionID)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
