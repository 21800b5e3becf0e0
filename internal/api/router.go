// internal/api/router.go
package api

import (
	"net/http"

	"notification-service/internal/common/logger"
	"notification-service/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the HTTP surface. The notification routes sit behind
// project authentication; health and metrics stay open.
func NewRouter(handler *NotificationHandler, resolver repository.ProjectResolver, serviceName string, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), Metrics(), Tracing(serviceName))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := router.Group("/", ProjectAuth(resolver, log))
	authed.POST("/notifications", handler.Send)
	authed.GET("/notifications/:id", handler.Status)

	return router
}
