package sessions

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Akshayn8055/VoxForms/internal/forms"
	"github.com/Akshayn8055/VoxForms/internal/voice"
)

const (
	// pongWait is how long to wait for a pong before dropping the socket.
	pongWait = 60 * time.Second
	// pingInterval must be shorter than pongWait.
	pingInterval = 25 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // allow all origins in dev; restrict in production
	},
}

// WSMessage is the WebSocket message envelope for builder events.
type WSMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// ServeWs handles GET /ws/builder?form_id=...&token=...: upgrades the
// connection and streams voice session state changes for the form. The
// token travels in the query because browsers cannot set headers on
// WebSocket upgrades.
func ServeWs(registry *forms.Registry, logger *zap.Logger, jwtValidate func(token string) (uuid.UUID, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		formIDStr := c.Query("form_id")
		token := c.Query("token")
		if formIDStr == "" || token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "form_id and token required"})
			return
		}
		formID, err := uuid.Parse(formIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form_id"})
			return
		}
		userID, err := jwtValidate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		bs, err := registry.Open(c.Request.Context(), formID, userID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "form not accessible"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		events, unsubscribe := bs.Controller.Subscribe()
		client := &wsClient{
			conn:   conn,
			events: events,
			done:   make(chan struct{}),
			logger: logger,
		}
		go client.writePump()
		client.readPump()
		unsubscribe()
	}
}

// wsClient forwards controller events to a single socket.
type wsClient struct {
	conn   *websocket.Conn
	events <-chan voice.Event
	done   chan struct{}
	logger *zap.Logger
}

// readPump consumes inbound frames to keep pong handling alive and detect
// close. Builder sockets are push only; inbound payloads are discarded.
func (c *wsClient) readPump() {
	defer func() {
		close(c.done)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.events:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(WSMessage{Event: "session_state", Data: ev}); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
