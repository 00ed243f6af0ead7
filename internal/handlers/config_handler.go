package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gescom/internal/config"
)

// ConfigHandler serves read-only presentation configuration.
type ConfigHandler struct{}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{}
}

// GetMarginThresholds returns the configured margin thresholds
// @Summary     Margin thresholds
// @Description Percentage cut-offs used to bucket margins; the calculation engine never thresholds
// @Tags        config
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} config.MarginThresholds "Thresholds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /config/margin-thresholds [get]
func (h *ConfigHandler) GetMarginThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"thresholds": config.Get().Thresholds})
}
