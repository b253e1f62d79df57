package controllers

import (
	"net/http"

	"github.com/imtarget05/Health-Tracker-App/services"

	"github.com/gin-gonic/gin"
)

type DispatchController struct {
	Dispatch *services.DispatchService
}

func NewDispatchController(d *services.DispatchService) *DispatchController {
	return &DispatchController{Dispatch: d}
}

// POST /admin/dispatch/:kind — manual replay of a scheduled job. Runs the
// same entry point the scheduler uses and returns the per-run tally.
func (dc *DispatchController) Run(c *gin.Context) {
	kind, err := services.ParseJobKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := dc.Dispatch.RunDispatch(c.Request.Context(), kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
