package offer

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The widget is served from a different origin than the API during
	// development; tighten this when the origins are known.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler streams the offer countdown to the notification component.
type WSHandler struct {
	hub    *Hub
	engine *Engine
}

func NewWSHandler(hub *Hub, engine *Engine) *WSHandler {
	return &WSHandler{hub: hub, engine: engine}
}

// HandleWebSocket upgrades the connection, pushes the current offer view
// immediately, then leaves the client on the broadcast list until it
// disconnects. Inbound messages are ignored; the stream is one-way.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("offer websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	if err := conn.WriteJSON(h.engine.View()); err != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
