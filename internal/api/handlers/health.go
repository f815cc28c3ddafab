// Package handlers implements HTTP handlers for the restock-tracker API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StatusResponse is the probe response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadinessChecker reports whether the service can run passes.
type ReadinessChecker interface {
	Ready() bool
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	ready ReadinessChecker
}

// NewHealthHandler creates a new HealthHandler. A nil checker is always
// ready.
func NewHealthHandler(r ReadinessChecker) *HealthHandler {
	return &HealthHandler{ready: r}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 once the scheduler is running, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if h.ready != nil && !h.ready.Ready() {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
