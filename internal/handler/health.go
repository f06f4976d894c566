package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Health reports liveness. The metrics store is the only hard dependency;
// with it unreachable no solve, forecast, or report call can succeed, so a
// failed ping marks the whole service unhealthy.
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.pool.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":        "unhealthy",
			"metrics_store": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"metrics_store": "connected",
	})
}
