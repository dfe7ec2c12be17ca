package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Connection represents one websocket client owned by a user.
type Connection struct {
	UserID uuid.UUID
	Send   chan []byte
}

// Hub tracks live websocket connections per user and fans toasts out to
// them. It is the production Notifier sink behind the booking listener.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a notification hub.
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run starts the hub loop (call in goroutine).
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("Notification socket connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
				}
			}
			h.mu.Unlock()
			log.Debug().Str("user_id", conn.UserID.String()).Msg("Notification socket disconnected")
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SendToUser pushes a JSON payload to every connection the user has. Slow
// consumers have the message dropped rather than blocking the sender.
func (h *Hub) SendToUser(userID uuid.UUID, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal notification payload")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[userID] {
		select {
		case conn.Send <- data:
		default:
			log.Warn().Str("user_id", userID.String()).Msg("Dropping notification for slow websocket consumer")
		}
	}
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, conns := range h.connections {
		count += len(conns)
	}
	return count
}

// Shutdown stops the hub loop.
func (h *Hub) Shutdown() {
	h.cancel()
}

// HubNotifier adapts the hub to the listener's Notifier interface for one
// user.
type HubNotifier struct {
	hub    *Hub
	userID uuid.UUID
}

// NewHubNotifier creates a per-user sink backed by the hub.
func NewHubNotifier(hub *Hub, userID uuid.UUID) *HubNotifier {
	return &HubNotifier{hub: hub, userID: userID}
}

// Notify pushes the toast to the user's websocket connections.
func (n *HubNotifier) Notify(_ context.Context, toast Toast) {
	n.hub.SendToUser(n.userID, map[string]interface{}{
		"type": "toast",
		"data": toast,
	})
}
