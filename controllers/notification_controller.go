package controllers

import (
	"net/http"

	"github.com/imtarget05/Health-Tracker-App/config"
	"github.com/imtarget05/Health-Tracker-App/models"
	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Push *services.PushService
}

func NewNotificationController(ps *services.PushService) *NotificationController {
	return &NotificationController{Push: ps}
}

type toggleReq struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// POST /user/notifications/toggle
func (nc *NotificationController) Toggle(c *gin.Context) {
	uid := c.GetUint("userID")

	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := nc.Push.SetNotificationsEnabled(c.Request.Context(), uid, *req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": *req.Enabled,
	})
}

// GET /user/notifications
func ListNotifications(c *gin.Context) {
	uid := c.GetUint("userID")

	var records []models.Notification
	if err := config.DB.
		Where("user_id = ?", uid).
		Order("sent_at DESC").
		Limit(100).
		Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": records})
}

// POST /user/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	uid := c.GetUint("userID")

	res := config.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", c.Param("id"), uid).
		Update("read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}
