// Package handlers implements the HTTP handlers of the Octopart mock server.
package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Readiness reports whether the server can answer API calls.
type Readiness interface {
	Ready(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	readiness Readiness
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(r Readiness) *HealthHandler {
	return &HealthHandler{readiness: r}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the API is serving, 503 while it is in maintenance.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.readiness.Ready(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
