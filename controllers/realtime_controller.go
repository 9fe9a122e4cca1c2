package controllers

import (
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks belong to the fronting app.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/compare/:id — stream slot-state transitions for one session.
func ComparisonSocket(c *gin.Context) {
	if _, ok := comparisonFor(c); !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
		return
	}

	client := &services.WSClient{SessionID: c.Param("id"), Conn: conn}
	deps.Hub.Register(client)
	defer deps.Hub.Unregister(client)

	// Read loop exists only to detect disconnect; clients don't send.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
