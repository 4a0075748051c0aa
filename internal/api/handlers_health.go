package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	version  string
	registry *registry.Registry
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string, reg *registry.Registry) *HealthHandler {
	return &HealthHandler{version: version, registry: reg}
}

// HandleHealth returns server health status.
func (h *HealthHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    h.version,
		"components": h.registry.Len(),
	})
}
