package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/types"
)

// HealthCheck godoc
// @Summary      Liveness and storage health
// @Tags         ops
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Failure      503  {object}  types.HealthResponse
// @Router       /health [get]
func (h *Handlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   Version,
		BankSize:  h.Survey.Bank().Len(),
		Database:  h.Health.GetPoolStats(),
		RateLimit: h.Limiter.GetStats(),
	}

	if err := h.Health.Ping(ctx); err != nil {
		h.Logger.Error("Health check failed", "error", err)
		resp.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMetrics godoc
// @Summary      Request and submission metrics
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /metrics [get]
func (h *Handlers) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Metrics.GetStats())
}
