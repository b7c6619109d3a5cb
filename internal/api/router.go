// Package api wires the MCP streamable HTTP handler, health and metrics
// endpoints onto a Gin router.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/stardustdb/stardust-mcp/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Health      HealthChecker
	MCPHandler  http.Handler
	CORSOrigins []string
	Version     string
}

// maxBodySize caps MCP request bodies.
const maxBodySize = 10 << 20 // 10 MB

// NewRouter creates and configures the Gin engine with all middleware and
// routes.
func NewRouter(deps *RouterDeps) http.Handler {
	r := gin.New()
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "Mcp-Session-Id"},
			ExposeHeaders:    []string{"Mcp-Session-Id"},
			MaxAge:           1 * time.Hour,
			AllowCredentials: false,
		}))
	}
	r.Use(middleware.PrometheusMiddleware())

	health := NewHealthHandler(deps.Health, deps.Log, deps.Version)
	r.GET("/healthz", health.Liveness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// The MCP streamable HTTP transport owns everything under /mcp.
	r.Any("/mcp", gin.WrapH(deps.MCPHandler))
	r.Any("/mcp/*path", gin.WrapH(deps.MCPHandler))

	return r
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		log.WithFields(fields).Info("request")
	}
}
