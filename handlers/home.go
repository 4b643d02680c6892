package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports process liveness and whether the geography catalog loaded
// GET /health
func (h *Handler) HealthHandler(c echo.Context) error {
	status := echo.Map{"status": "ok", "geography": "ok"}
	if err := h.Catalog.Err(); err != nil {
		status["geography"] = "unavailable"
	}

	sqlDB, err := h.DB.DB()
	if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
		status["status"] = "degraded"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
