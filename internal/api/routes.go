package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/skillzen/career-api/internal/api/handlers"
	"github.com/skillzen/career-api/internal/api/middleware"
	"github.com/skillzen/career-api/internal/metrics"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, generation handlers.GenerationService, resumes handlers.ResumeService) {
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.CORSConfig())
	e.Use(echomiddleware.BodyLimit("8M"))

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")
	{
		api.POST("/gemini", handlers.GenerateHandler(generation))
		api.GET("/quota", handlers.QuotaHandler(generation))

		resume := api.Group("/resume")
		{
			resume.POST("/parse", handlers.ParseResumeHandler(resumes))
			resume.GET("/:userId", handlers.LatestResumeHandler(resumes))
		}

		health := api.Group("/health")
		{
			health.GET("", handlers.HealthHandler)
			health.GET("/vendors", handlers.VendorsHealthHandler(resumes))
		}
	}
}
