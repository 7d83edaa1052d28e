package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(Logger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/networks", handler.ListNetworks)

		runs := v1.Group("/runs")
		{
			runs.GET("", handler.ListRuns)
			runs.GET("/:id", handler.GetRun)
			runs.GET("/:id/records", handler.GetRunRecords)
			runs.GET("/:id/summary", handler.GetRunSummary)
		}
	}

	return router
}
