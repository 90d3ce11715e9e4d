package routes

import (
	"flockr/chatroom"

	"github.com/gin-gonic/gin"
)

func SetupWebSocketRoutes(r *gin.Engine, hub *chatroom.Hub) {
	// Live feed for one channel
	r.GET("/ws", hub.HandleSocket)
}
