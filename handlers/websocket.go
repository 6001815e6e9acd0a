package handlers

import (
	"net/http"
	"time"

	"citypulse/ws"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
)

// WebSocketHandler upgrades connections onto the report event feed.
type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering happens in the CORS middleware for the REST
		// surface; the feed is read-only.
		return true
	},
}

// ListenReports handles websocket subscriptions to report events.
func (h *WebSocketHandler) ListenReports(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("Failed to upgrade connection to websocket: %v", err)
		return
	}
	h.hub.RegisterConn(conn)
}

// FeedStats reports hub statistics for operator diagnostics.
func (h *WebSocketHandler) FeedStats(c *gin.Context) {
	clients, lastEventAt := h.hub.Stats()
	resp := gin.H{
		"connectedClients": clients,
	}
	if !lastEventAt.IsZero() {
		resp["lastEventAt"] = lastEventAt.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
