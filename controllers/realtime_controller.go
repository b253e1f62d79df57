package controllers

import (
	"net/http"

	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	Hub *services.RealtimeHub
}

func NewRealtimeController(hub *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 512,
	CheckOrigin:     func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

// GET /ws/notifications — streams dispatch events for the signed-in user.
// The hub owns all writes and keepalive pings; this handler only reads
// so it can notice the peer going away.
func (rc *RealtimeController) NotificationsWS(c *gin.Context) {
	uid := c.GetUint("userID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := rc.Hub.Attach(uid, conn)
	defer rc.Hub.Detach(cl)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
