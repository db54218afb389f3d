package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var startedAt = time.Now()

func HealthCheck(e echo.Context) error {
	return e.JSON(http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "devconnect-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).String(),
	})
}
