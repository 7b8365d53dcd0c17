// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"

	hub "parkdesk-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Desk dashboard is served from the same host; cross-origin dashboards
	// are allowed since the feed carries no sensitive payloads.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *hub.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(h *hub.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: h, logger: logger}
}

// HandleConnection upgrades the request and subscribes the client to
// occupancy broadcasts.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.hub.Register(conn)
}
