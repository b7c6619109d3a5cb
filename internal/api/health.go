package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const healthCheckTimeout = 5 * time.Second

// HealthChecker reports whether the remote Stardust store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	store   HealthChecker
	log     *logrus.Logger
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(store HealthChecker, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{store: store, log: log, version: version}
}

// Liveness reports server health, including reachability of the remote
// store.
func (h *HealthHandler) Liveness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Health(ctx); err != nil {
		h.log.WithError(err).Warn("health check: stardust store unreachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"version": h.version,
			"store":   err.Error(),
		})

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}
