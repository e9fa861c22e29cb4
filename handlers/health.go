package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawpack/utils"
)

// HealthHandler reports the last backing store probe. A process that has not
// probed yet still answers ok.
func HealthHandler(c *gin.Context) {
	h := utils.GetHealthStatus()
	if !h.CheckedAt.IsZero() && !h.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": h})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": h})
}
