package handlers

import (
	"net/http"

	"github.com/satyamraj1643/pine/internal/infrastructure/messaging"
	"github.com/satyamraj1643/pine/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandlers exposes the live session-stats websocket.
type WSHandlers struct {
	broadcaster *messaging.SessionBroadcaster
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewWSHandlers creates websocket handlers with injected dependencies
func NewWSHandlers(broadcaster *messaging.SessionBroadcaster, logger *logging.ChanneledLogger) *WSHandlers {
	return &WSHandlers{
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// GetSessionSocket handles GET /ws/sessions - upgrades and streams session stats
func (h *WSHandlers) GetSessionSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WS().Error("Websocket upgrade failed", "error", err)
		return
	}

	client := &messaging.Client{
		Conn: conn,
		Send: make(chan []byte, 8),
	}
	h.broadcaster.Register(client)

	go client.WritePump()

	// Reader loop only to detect disconnects; inbound messages are ignored.
	go func() {
		defer h.broadcaster.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
