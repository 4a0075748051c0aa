package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/connection"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/export"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/render"
)

// NetlistFormat selects the s-expression netlist on /api/connections.
const NetlistFormat = "netlist"

// RenderHandler resolves posted circuit documents. The body is a YAML or
// JSON document; ?format= selects json (default), msgpack or yaml output.
type RenderHandler struct {
	registry *registry.Registry
	options  description.LayoutOptions
	logger   *slog.Logger
}

func NewRenderHandler(reg *registry.Registry, opts description.LayoutOptions, logger *slog.Logger) *RenderHandler {
	return &RenderHandler{registry: reg, options: opts, logger: logger}
}

func (h *RenderHandler) readDocument(c echo.Context) (*circuit.Document, error) {
	doc, err := circuit.ReadDocument(c.Request().Body)
	if err != nil {
		return nil, NewBadRequestError("invalid circuit document", err)
	}
	return doc, nil
}

func (h *RenderHandler) respond(c echo.Context, v any) error {
	f, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return NewBadRequestError("invalid format", err)
	}
	var buf bytes.Buffer
	if err := export.Encode(&buf, f, v); err != nil {
		return NewInternalError("failed to encode response", err)
	}
	return c.Blob(http.StatusOK, f.ContentType(), buf.Bytes())
}

// HandleRender returns the primitives of every component and wire.
func (h *RenderHandler) HandleRender(c echo.Context) error {
	doc, err := h.readDocument(c)
	if err != nil {
		return err
	}
	res := render.RenderDocument(doc, h.registry, h.options)
	h.logger.Debug("rendered document", "components", len(res.Components), "wires", len(res.Wires), "errors", len(res.Errors))
	return h.respond(c, export.FromDocument(res))
}

// HandleConnections returns the visualised connections and nets.
// ?format=netlist returns the nets as an s-expression netlist instead.
func (h *RenderHandler) HandleConnections(c echo.Context) error {
	doc, err := h.readDocument(c)
	if err != nil {
		return err
	}
	res := connection.Visualise(doc, h.registry, h.options)
	h.logger.Debug("visualised connections", "locations", len(res.Connections), "nets", res.Netlist.NetCount())

	if c.QueryParam("format") == NetlistFormat {
		var buf bytes.Buffer
		if err := export.WriteNetlist(&buf, res.Netlist); err != nil {
			return NewInternalError("failed to write netlist", err)
		}
		return c.Blob(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
	}
	return h.respond(c, export.FromConnections(res))
}
