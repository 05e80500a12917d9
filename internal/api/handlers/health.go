package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/skillzen/career-api/internal/services"
	"net/http"
	"time"
)

var startTime = time.Now()

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

type vendorsResponse struct {
	Message   string                 `json:"message"`
	Results   []services.ParserCheck `json:"results"`
	Timestamp time.Time              `json:"timestamp"`
}

// HealthHandler handles GET /api/health
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	})
}

// VendorsHealthHandler handles GET /api/health/vendors
func VendorsHealthHandler(service ResumeService) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, vendorsResponse{
			Message:   "API connectivity test completed",
			Results:   service.CheckParsers(c.Request().Context()),
			Timestamp: time.Now(),
		})
	}
}
