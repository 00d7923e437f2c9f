package handlers

import (
	"log"
	"net/http"
	"pulse/internal/auth"
	"pulse/internal/models"
	"pulse/internal/monitor"

	"github.com/gin-gonic/gin"
)

type MonitorHandler struct {
	monitor *monitor.Monitor
}

func NewMonitorHandler(mon *monitor.Monitor) *MonitorHandler {
	return &MonitorHandler{monitor: mon}
}

// ListChecks godoc
// @Summary Latest dependency checks
// @Description Returns the result of the most recent scheduled check for every dependency
// @Tags monitor
// @Produce json
// @Success 200 {object} models.ReadinessResponse
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Security BearerAuth
// @Router /api/monitor/checks [get]
func (h *MonitorHandler) ListChecks(c *gin.Context) {
	c.JSON(http.StatusOK, readiness(h.monitor.Snapshot()))
}

// RunChecks godoc
// @Summary Run dependency checks
// @Description Runs every dependency check immediately (admin only)
// @Tags monitor
// @Produce json
// @Success 200 {object} models.ReadinessResponse
// @Failure 401 {object} models.ErrorResponse "Missing or invalid token"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Security BearerAuth
// @Router /api/monitor/run [post]
func (h *MonitorHandler) RunChecks(c *gin.Context) {
	if user := auth.GetUserFromContext(c); user != nil {
		log.Printf("Manual dependency check triggered by %s", user.Username)
	}
	c.JSON(http.StatusOK, readiness(h.monitor.RunChecks(c.Request.Context())))
}

func readiness(results map[string]models.DependencyStatus) models.ReadinessResponse {
	status := models.StatusReady
	if !monitor.Healthy(results) {
		status = models.StatusNotReady
	}
	return models.ReadinessResponse{Status: status, Dependencies: results}
}
