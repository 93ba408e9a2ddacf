package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tsgfeedback/feedback-api/services"
	"github.com/tsgfeedback/feedback-api/types"
)

type HealthHandler struct {
	healthService *services.HealthService
}

func NewHealthHandler(healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// APIHealth godoc
// @Summary  Plain liveness string for load balancers
// @Tags     health
// @Produce  plain
// @Success  200  {string}  string  "OK"
// @Router   /health [get]
func (h *HealthHandler) APIHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// LivenessCheck handles kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck handles kubernetes readiness probe
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())

	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

// DetailedHealth provides detailed health information
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.healthService.CheckHealth(c.Request.Context())
	if health.Status == types.HealthStatusDown {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
