package controllers

import (
	"net/http"
	"strconv"

	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	Push *services.PushService
}

func NewDeviceController(ps *services.PushService) *DeviceController {
	return &DeviceController{Push: ps}
}

type deviceView struct {
	ID       uint   `json:"id"`
	Platform string `json:"platform"`
	Active   bool   `json:"active"`
}

// POST /user/devices — registers (or refreshes) a push token. Re-sending a
// known token reactivates it, which is how a gateway-disabled endpoint
// comes back to life.
func (dc *DeviceController) Register(c *gin.Context) {
	uid := c.GetUint("userID")

	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform must be android|ios and token is required"})
		return
	}

	dev, err := dc.Push.RegisterDevice(uid, req.Platform, req.Token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device":       deviceView{ID: dev.ID, Platform: dev.Platform, Active: dev.Active},
		"endpoint_arn": dev.EndpointARN,
	})
}

// GET /user/devices
func (dc *DeviceController) List(c *gin.Context) {
	uid := c.GetUint("userID")

	devices, err := dc.Push.UserDevices(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]deviceView, 0, len(devices))
	for _, d := range devices {
		views = append(views, deviceView{ID: d.ID, Platform: d.Platform, Active: d.Active})
	}
	c.JSON(http.StatusOK, gin.H{"devices": views})
}

// DELETE /user/devices/:id
func (dc *DeviceController) Deactivate(c *gin.Context) {
	uid := c.GetUint("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	if err := dc.Push.DeactivateDevice(c.Request.Context(), uid, uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device deactivated"})
}
