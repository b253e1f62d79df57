// controllers/dev_controller.go
package controllers

import (
	"net/http"

	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
)

type DevController struct {
	Push *services.PushService
}

func NewDevController(p *services.PushService) *DevController {
	return &DevController{Push: p}
}

type pushReq struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// POST /dev/push — sends a test notification to the caller's own devices.
func (d *DevController) PushTest(c *gin.Context) {
	uid := c.GetUint("userID")

	var req pushReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// sane defaults for quick tests
	if req.Title == "" {
		req.Title = "Test alert 🔔"
	}
	if req.Body == "" {
		req.Body = "This is only a test."
	}
	if req.Data == nil {
		req.Data = map[string]string{"kind": "test"}
	}

	tokens, err := d.Push.ActiveTokens(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(tokens) == 0 {
		c.JSON(http.StatusOK, gin.H{"ok": false, "message": "no active devices"})
		return
	}

	res := d.Push.SendMulticast(c.Request.Context(), tokens, req.Title, req.Body, req.Data)
	c.JSON(http.StatusOK, gin.H{"ok": true, "success": res.Success, "failure": res.Failure})
}
