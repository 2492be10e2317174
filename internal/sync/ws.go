package sync

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only feed
	},
}

func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"welcome","transport":"websocket"}`+"\n"))
		hub.AddWS(ws)
		log.Println("[sync] ws client connected")

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		log.Println("[sync] ws client disconnected")
	}
}
