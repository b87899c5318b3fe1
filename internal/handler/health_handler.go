package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tickops/pkg/database"
	"tickops/prometheus"
)

// HealthCheck reports process liveness.
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// HealthDB reports database reachability.
func (h *Handler) HealthDB(c echo.Context) error {
	if err := database.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": "database unreachable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Metrics serves the Prometheus registry.
func (h *Handler) Metrics(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
