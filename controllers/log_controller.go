package controllers

import (
	"net/http"
	"time"

	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	Logs *services.LogService
}

func NewLogController(l *services.LogService) *LogController {
	return &LogController{Logs: l}
}

type mealInput struct {
	Date          string  `json:"date"` // YYYY-MM-DD, default today
	MealType      string  `json:"meal_type" binding:"required"`
	Description   string  `json:"description"`
	TotalCalories float64 `json:"total_calories" binding:"required"`
}

func resolveDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now(), true
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}

// POST /meals
func (lc *LogController) AddMeal(c *gin.Context) {
	uid := c.GetUint("userID")

	var input mealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, ok := resolveDate(c, input.Date)
	if !ok {
		return
	}

	meal, err := lc.Logs.AddMeal(c.Request.Context(), uid, date, input.MealType, input.Description, input.TotalCalories)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// GET /meals?date=YYYY-MM-DD
func (lc *LogController) ListMeals(c *gin.Context) {
	uid := c.GetUint("userID")
	date, ok := resolveDate(c, c.Query("date"))
	if !ok {
		return
	}

	meals, err := lc.Logs.MealsByDate(c.Request.Context(), uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

type waterInput struct {
	Date     string  `json:"date"`
	AmountMl float64 `json:"amount_ml" binding:"required"`
}

// POST /water
func (lc *LogController) AddWater(c *gin.Context) {
	uid := c.GetUint("userID")

	var input waterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, ok := resolveDate(c, input.Date)
	if !ok {
		return
	}

	log, err := lc.Logs.AddWater(c.Request.Context(), uid, date, input.AmountMl)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, log)
}

// GET /water?date=YYYY-MM-DD
func (lc *LogController) ListWater(c *gin.Context) {
	uid := c.GetUint("userID")
	date, ok := resolveDate(c, c.Query("date"))
	if !ok {
		return
	}

	logs, err := lc.Logs.WaterByDate(c.Request.Context(), uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"water_logs": logs})
}
