package controllers

import (
	"net/http"
	"time"

	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Stats *services.StatsService
}

func NewStatsController(s *services.StatsService) *StatsController {
	return &StatsController{Stats: s}
}

func parseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	q := c.Query(key)
	if q == "" {
		return time.Now(), true
	}
	parsed, err := time.ParseInLocation("2006-01-02", q, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}

// GET /stats/daily?date=YYYY-MM-DD
func (sc *StatsController) Daily(c *gin.Context) {
	uid := c.GetUint("userID")
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	buckets, err := sc.Stats.Aggregate(c.Request.Context(), uid, services.GranularityDay, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, buckets[0])
}

// GET /stats/weekly?start=YYYY-MM-DD
func (sc *StatsController) Weekly(c *gin.Context) {
	uid := c.GetUint("userID")
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}

	buckets, err := sc.Stats.Aggregate(c.Request.Context(), uid, services.GranularityWeek, start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start_date": buckets[0].Date,
		"end_date":   buckets[len(buckets)-1].Date,
		"days":       buckets,
	})
}

// GET /stats/monthly?month=YYYY-MM
func (sc *StatsController) Monthly(c *gin.Context) {
	uid := c.GetUint("userID")

	anchor := time.Now()
	if q := c.Query("month"); q != "" {
		parsed, err := time.ParseInLocation("2006-01", q, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
		anchor = parsed
	}

	buckets, err := sc.Stats.Aggregate(c.Request.Context(), uid, services.GranularityMonth, anchor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"month": anchor.Format("2006-01"),
		"days":  buckets,
	})
}
