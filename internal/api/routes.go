// Package api serves render and connection resolution over HTTP.
package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

// Dependencies holds everything the handlers share.
type Dependencies struct {
	Registry *registry.Registry
	Options  description.LayoutOptions
	Version  string
	Logger   *slog.Logger
}

// Handlers holds all handler instances.
type Handlers struct {
	Health     *HealthHandler
	Components *ComponentHandler
	Render     *RenderHandler
}

// NewHandlers creates all handler instances.
func NewHandlers(deps *Dependencies) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Health:     NewHealthHandler(deps.Version, deps.Registry),
		Components: NewComponentHandler(deps.Registry),
		Render:     NewRenderHandler(deps.Registry, deps.Options, logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	g := e.Group("/api")
	g.GET("/health", h.Health.HandleHealth)
	g.GET("/components", h.Components.HandleListComponents)
	g.POST("/render", h.Render.HandleRender)
	g.POST("/connections", h.Render.HandleConnections)
}

// New builds a configured Echo instance serving deps.
func New(deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.Recover())
	RegisterRoutes(e, NewHandlers(deps))
	return e
}
