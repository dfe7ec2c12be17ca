package notification

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/homepro/homepro-api/internal/middleware"
	"github.com/homepro/homepro-api/internal/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler serves the realtime notification websocket.
type Handler struct {
	hub      *Hub
	source   EventSource
	upgrader websocket.Upgrader
}

// NewHandler creates a notification handler.
func NewHandler(hub *Hub, source EventSource, allowedOrigins []string) *Handler {
	return &Handler{
		hub:    hub,
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				if len(allowedOrigins) == 0 {
					return true
				}

				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// WebSocket handles GET /ws/notifications. The connection's lifetime is the
// session's listening window: the booking change subscription opens when the
// socket does and is torn down when it closes.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if sess.UserID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	conn := &Connection{
		UserID: sess.UserID,
		Send:   make(chan []byte, 32),
	}
	h.hub.Register(conn)

	listener := NewListener(sess, h.source, NewHubNotifier(h.hub, sess.UserID))
	sub, err := listener.Subscribe(r.Context())
	if err != nil {
		// The socket still works for future pushes; there is just no
		// live change feed behind it. The client reconnects to retry.
		log.Warn().Err(err).Str("user_id", sess.UserID.String()).Msg("Realtime booking feed unavailable")
	}

	done := make(chan struct{})
	go h.writePump(ws, conn, done)
	h.readPump(ws)

	// Teardown order: subscription first so no event races the closing
	// socket, then the hub registration.
	if sub != nil {
		sub.Unsubscribe()
	}
	h.hub.Unregister(conn)
	close(done)
}

// readPump discards inbound frames; it exists to notice the close.
func (h *Handler) readPump(ws *websocket.Conn) {
	defer ws.Close()

	ws.SetReadLimit(512)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(ws *websocket.Conn, conn *Connection, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case <-done:
			return

		case message, ok := <-conn.Send:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
