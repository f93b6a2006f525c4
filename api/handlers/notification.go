package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// wsClient wraps a connection with a write lock. gorilla/websocket allows at
// most one concurrent writer per connection, and events for the same user
// can arrive from concurrent requests.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeEvent(event string, data map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(map[string]interface{}{
		"event": event,
		"data":  data,
	})
}

// NotificationHub tracks connected clients (userId -> client) and pushes
// case lifecycle events to them. It satisfies dispatch.EventPublisher.
type NotificationHub struct {
	clients map[string]*wsClient
	mutex   sync.Mutex
}

// NewNotificationHub returns an empty hub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		clients: make(map[string]*wsClient),
	}
}

// HandleNotificationsWebSocket upgrades the connection and registers the
// client for case event delivery
func (h *NotificationHub) HandleNotificationsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	h.mutex.Lock()
	h.clients[userID] = &wsClient{conn: conn}
	h.mutex.Unlock()
	zap.S().Debugw("websocket client connected", "userId", userID)

	conn.SetCloseHandler(func(code int, text string) error {
		h.mutex.Lock()
		delete(h.clients, userID)
		h.mutex.Unlock()
		zap.S().Debugw("websocket client disconnected", "userId", userID)
		return nil
	})

	// drain the connection to keep it alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// Connected reports whether the user currently has a registered connection.
func (h *NotificationHub) Connected(userID string) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	_, ok := h.clients[userID]
	return ok
}

// PublishCaseEvent pushes a case lifecycle event to the addressed user.
// Delivery is best-effort; a broken connection is dropped from the hub.
func (h *NotificationHub) PublishCaseEvent(userID string, event string, data map[string]interface{}) {
	h.mutex.Lock()
	client, exists := h.clients[userID]
	h.mutex.Unlock()

	if !exists {
		return
	}

	if err := client.writeEvent(event, data); err != nil {
		zap.S().Warnw("failed to push case event",
			"userId", userID,
			"event", event,
			"error", err,
		)
		h.drop(userID, client)
	}
}

// BroadcastCaseEvent pushes an event to every connected client. Used for
// urgent case announcements.
func (h *NotificationHub) BroadcastCaseEvent(event string, data map[string]interface{}) {
	h.mutex.Lock()
	snapshot := make(map[string]*wsClient, len(h.clients))
	for userID, client := range h.clients {
		snapshot[userID] = client
	}
	h.mutex.Unlock()

	for userID, client := range snapshot {
		if err := client.writeEvent(event, data); err != nil {
			zap.S().Warnw("failed to broadcast case event",
				"userId", userID,
				"event", event,
				"error", err,
			)
			h.drop(userID, client)
		}
	}
}

// drop removes the client from the hub and closes the connection. The map
// entry is compared first so a reconnected user is not evicted by a stale
// failure.
func (h *NotificationHub) drop(userID string, client *wsClient) {
	h.mutex.Lock()
	if h.clients[userID] == client {
		delete(h.clients, userID)
	}
	h.mutex.Unlock()
	client.conn.Close()
}
