package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

// ComponentHandler lists the loaded descriptions.
type ComponentHandler struct {
	registry *registry.Registry
}

func NewComponentHandler(reg *registry.Registry) *ComponentHandler {
	return &ComponentHandler{registry: reg}
}

// ComponentInfo summarises a description.
type ComponentInfo struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Author         string         `json:"author,omitempty"`
	Version        string         `json:"version,omitempty"`
	ImplementSet   string         `json:"implementSet,omitempty"`
	ImplementItem  string         `json:"implementItem,omitempty"`
	MinSize        float64        `json:"minSize"`
	Properties     []PropertyInfo `json:"properties"`
	Configurations []string       `json:"configurations,omitempty"`
}

// PropertyInfo describes one declared property.
type PropertyInfo struct {
	Name    string `json:"name"`
	Key     string `json:"key"`
	Display string `json:"display,omitempty"`
	Type    string `json:"type"`
	Default any    `json:"default"`
}

// HandleListComponents returns every registered description, sorted by name.
func (h *ComponentHandler) HandleListComponents(c echo.Context) error {
	out := []ComponentInfo{}
	for _, d := range h.registry.All() {
		info := ComponentInfo{
			ID:            d.ID.String(),
			Name:          d.Name,
			Author:        d.Metadata.Author,
			Version:       d.Metadata.Version,
			ImplementSet:  d.Metadata.ImplementSet,
			ImplementItem: d.Metadata.ImplementItem,
			MinSize:       d.MinSize,
			Properties:    []PropertyInfo{},
		}
		for i := range d.Properties {
			p := &d.Properties[i]
			info.Properties = append(info.Properties, PropertyInfo{
				Name:    p.Name,
				Key:     p.Key(),
				Display: p.DisplayName,
				Type:    p.Type.String(),
				Default: p.Default.Interface(),
			})
		}
		for _, cfg := range d.Metadata.Configurations {
			info.Configurations = append(info.Configurations, cfg.Name)
		}
		out = append(out, info)
	}
	return c.JSON(http.StatusOK, out)
}
