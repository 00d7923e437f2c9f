package handlers

import (
	"fmt"
	"net/http"
	"pulse/internal/config"
	"pulse/internal/models"

	"github.com/gin-gonic/gin"
)

type RootHandler struct {
	app config.AppConfig
}

func NewRootHandler(app config.AppConfig) *RootHandler {
	return &RootHandler{app: app}
}

// Root godoc
// @Summary API banner
// @Description Identifies the API and points at its documentation
// @Tags health
// @Produce json
// @Success 200 {object} models.RootResponse
// @Router / [get]
func (h *RootHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.RootResponse{
		Message:     fmt.Sprintf("Welcome to the %s API", h.app.Name),
		Version:     h.app.Version,
		Environment: h.app.Environment,
		Docs:        "/swagger/index.html",
	})
}
