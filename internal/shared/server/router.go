package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/metrics"
	"recruit-backend/internal/shared/server/middleware"
)

// RouteRegistrar attaches a handler's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// NewEngine builds the gin engine with shared middleware and routes.
func NewEngine(corsOrigins []string, handlers ...RouteRegistrar) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(corsOrigins),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	engine.GET("/metrics", metrics.Handler())

	api := engine.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
	return engine
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
