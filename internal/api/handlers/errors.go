package handlers

import (
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
	HasBackup  *bool  `json:"hasBackup,omitempty"`
}

func respondError(c echo.Context, status int, message string, details string) error {
	return c.JSON(status, errorResponse{Error: message, Details: details})
}
