package handlers

import (
	"net/http"
	"pulse/internal/config"
	"pulse/internal/models"
	"pulse/internal/monitor"
	"time"

	"github.com/gin-gonic/gin"
)

// databaseChecker is the monitor checker name reported in the health response
const databaseChecker = "database"

type HealthHandler struct {
	app     config.AppConfig
	monitor *monitor.Monitor
}

func NewHealthHandler(app config.AppConfig, mon *monitor.Monitor) *HealthHandler {
	return &HealthHandler{app: app, monitor: mon}
}

// Health godoc
// @Summary Health check
// @Description Liveness of the API. Always 200 while the process serves requests; the database field reflects the latest scheduled check.
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:      models.StatusHealthy,
		Environment: h.app.Environment,
		Version:     h.app.Version,
		Database:    h.databaseState(),
		Time:        time.Now().UTC(),
	})
}

// Ready godoc
// @Summary Readiness check
// @Description Runs every dependency check now and reports whether the API can serve traffic
// @Tags health
// @Produce json
// @Success 200 {object} models.ReadinessResponse
// @Failure 503 {object} models.ReadinessResponse "A dependency is unavailable"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	results := h.monitor.RunChecks(c.Request.Context())

	if !monitor.Healthy(results) {
		c.JSON(http.StatusServiceUnavailable, models.ReadinessResponse{
			Status:       models.StatusNotReady,
			Dependencies: results,
		})
		return
	}

	c.JSON(http.StatusOK, models.ReadinessResponse{
		Status:       models.StatusReady,
		Dependencies: results,
	})
}

func (h *HealthHandler) databaseState() string {
	status, err := h.monitor.Status(databaseChecker)
	if err != nil {
		return models.DatabaseDisabled
	}

	switch status.Status {
	case models.StatusHealthy:
		return models.DatabaseConnected
	case models.StatusUnhealthy:
		return models.DatabaseDisconnected
	default:
		return models.DatabaseUnknown
	}
}
