package routes

import (
	"net/http"

	"taskapp/internal/adapter/http/handler"
	"taskapp/pkg/config"
	"taskapp/pkg/middlewares"
	. "taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	TaskHandler *handler.TaskHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *AppMetrics, logger *config.Logger, cfg *config.AppConfig) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	middlewares.SetupGinMiddlewareWithConfig(router, cfg.ServiceName, metrics, logger, cfg)

	if handlers.TaskHandler != nil {
		setupTaskRoutes(router.Group(cfg.RoutePrefix), handlers.TaskHandler)
	}

	return router
}

func setupTaskRoutes(group *gin.RouterGroup, taskHandler *handler.TaskHandler) {
	group.POST("/create", taskHandler.CreateTask)
	group.GET("/get/:id", taskHandler.GetTask)
	group.GET("/tasks", taskHandler.ListTasks)
	group.PUT("/edit/:id", taskHandler.UpdateTask)
	group.DELETE("/remove/:id", taskHandler.DeleteTask)
	group.PATCH("/tasks/:id/status", taskHandler.UpdateTaskStatus)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SetupRouterForTests mounts the task routes without telemetry or rate limiting.
func SetupRouterForTests(handlers HandlersConfig, prefix string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middlewares.RequestIDMiddleware())

	if handlers.TaskHandler != nil {
		setupTaskRoutes(router.Group(prefix), handlers.TaskHandler)
	}

	return router
}
