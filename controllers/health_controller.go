package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Health *services.HealthService
}

func NewHealthController(h *services.HealthService) *HealthController {
	return &HealthController{Health: h}
}

// GET /health/profile
func (hc *HealthController) GetProfile(c *gin.Context) {
	uid := c.GetUint("userID")

	profile, err := hc.Health.GetProfile(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusOK, gin.H{"profile": nil})
		return
	}

	resp := gin.H{"profile": profile}
	if bmi, band, ok := services.BodyMass(services.BiometricsFromProfile(profile)); ok {
		resp["bmi"] = bmi
		resp["bmi_band"] = band
	}
	c.JSON(http.StatusOK, resp)
}

// PUT /health/profile
func (hc *HealthController) UpsertProfile(c *gin.Context) {
	uid := c.GetUint("userID")

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := hc.Health.UpsertProfile(c.Request.Context(), uid, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GET /health/stats/daily?date=YYYY-MM-DD
func (hc *HealthController) DailyOverview(c *gin.Context) {
	uid := c.GetUint("userID")

	date := time.Now()
	if q := c.Query("date"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	overview, err := hc.Health.DailyOverview(c.Request.Context(), uid, date)
	if err != nil {
		if errors.Is(err, services.ErrNoProfile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "configure /health/profile first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}
