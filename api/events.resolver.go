package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var eventsUpgrader = websocket.Upgrader{
	// the dashboard is served from another origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// events upgrades the connection and subscribes it to optimization
// events. The read loop only exists to notice disconnects.
func (m ApiHandler) events(c *gin.Context) {
	conn, err := eventsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	m.EventHub.AddClient(conn)

	go func() {
		defer m.EventHub.RemoveClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
