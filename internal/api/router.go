package api

import (
	"github.com/gin-gonic/gin"

	"github.com/harmonylab/lab-api/internal/api/handlers"
	apimiddleware "github.com/harmonylab/lab-api/internal/api/middleware"
	"github.com/harmonylab/lab-api/internal/config"
	"github.com/harmonylab/lab-api/internal/metrics"
	"github.com/harmonylab/lab-api/internal/store"
)

func SetupRouter(st store.Store, cfg *config.Config, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(cw))

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	router.GET("/health", handlers.HealthCheck(cfg.StoreBackend))

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	v1 := router.Group("/api/v1")
	{
		// Notation engine endpoint
		notationHandler := handlers.NewNotationHandler(cw)
		v1.POST("/notation/parse", notationHandler.Parse)

		// Exercise authoring and playback
		exerciseHandler := handlers.NewExerciseHandler(st, cw)
		v1.POST("/exercises", exerciseHandler.Create)
		v1.GET("/exercises/:group", exerciseHandler.ListExercises)
		v1.GET("/exercises/:group/:name", exerciseHandler.Get)
		v1.GET("/exercises/:group/:name/midi", exerciseHandler.ExportMIDI)
		v1.DELETE("/exercises/:group/:name", exerciseHandler.Delete)
		v1.GET("/groups", exerciseHandler.ListGroups)
		v1.DELETE("/groups/:group", exerciseHandler.DeleteGroup)
	}

	return router
}
