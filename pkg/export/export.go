// Package export encodes rendered documents and visualised connections
// for consumers outside the engine. Every primitive is a tagged record
// whose "kind" field names its shape.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/connection"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/render"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/svgpath"
)

// Format selects an encoding.
type Format string

const (
	JSON    Format = "json"
	Msgpack Format = "msgpack"
	YAML    Format = "yaml"
)

// ParseFormat accepts "json", "msgpack" and "yaml".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, Msgpack, YAML:
		return f, nil
	case "":
		return JSON, nil
	}
	return "", fmt.Errorf("export: unknown format %q", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case Msgpack:
		return "application/msgpack"
	case YAML:
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes v to w in format f. Field names come from the json tags
// for every format.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case Msgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(v)
	case YAML:
		// yaml.v3 only reads yaml tags; round trip through JSON to keep one
		// set of field names
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("export: unknown format %q", f)
}

// Primitive is the tagged record form of a render.Primitive.
type Primitive struct {
	Kind      string      `json:"kind"`
	Start     *geom.Point `json:"start,omitempty"`
	End       *geom.Point `json:"end,omitempty"`
	Location  *geom.Point `json:"location,omitempty"`
	Centre    *geom.Point `json:"centre,omitempty"`
	Width     float64     `json:"width,omitempty"`
	Height    float64     `json:"height,omitempty"`
	RadiusX   float64     `json:"rx,omitempty"`
	RadiusY   float64     `json:"ry,omitempty"`
	Thickness float64     `json:"thickness,omitempty"`
	Fill      bool        `json:"fill,omitempty"`
	Data      string      `json:"data,omitempty"`
	Alignment string      `json:"align,omitempty"`
	Rotation  int         `json:"rotation,omitempty"`
	Runs      []TextRun   `json:"runs,omitempty"`
}

type TextRun struct {
	Text string  `json:"text"`
	Size float64 `json:"size,omitempty"`
	Mode string  `json:"mode,omitempty"`
}

// FromPrimitive converts p into its tagged record.
func FromPrimitive(p render.Primitive) Primitive {
	out := Primitive{Kind: p.Kind()}
	switch v := p.(type) {
	case render.Line:
		out.Start, out.End, out.Thickness = ptr(v.Start), ptr(v.End), v.Thickness
	case render.Rectangle:
		out.Location, out.Width, out.Height = ptr(v.Location), v.Width, v.Height
		out.Thickness, out.Fill = v.Thickness, v.Fill
	case render.Ellipse:
		out.Centre, out.RadiusX, out.RadiusY = ptr(v.Centre), v.RadiusX, v.RadiusY
		out.Thickness, out.Fill = v.Thickness, v.Fill
	case render.Path:
		out.Start, out.Data = ptr(v.Start), svgpath.Format(v.Commands)
		out.Thickness, out.Fill = v.Thickness, v.Fill
	case render.Text:
		out.Location = ptr(v.Location)
		out.Alignment = v.Alignment.String()
		out.Rotation = v.Rotation.Degrees()
		for _, r := range v.Runs {
			run := TextRun{Text: r.Text, Size: r.Formatting.Size}
			if r.Formatting.Mode != 0 {
				run.Mode = r.Formatting.Mode.String()
			}
			out.Runs = append(out.Runs, run)
		}
	default:
		panic(fmt.Sprintf("export: unknown primitive %T", p))
	}
	return out
}

func ptr(p geom.Point) *geom.Point { return &p }

// Component is the rendered form of one component.
type Component struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Primitives  []Primitive `json:"primitives"`
}

// Document is the encodable form of a render.DocumentResult.
type Document struct {
	Components []Component `json:"components"`
	Wires      []Primitive `json:"wires,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
}

// FromDocument converts a rendered document.
func FromDocument(res *render.DocumentResult) Document {
	out := Document{Components: []Component{}}
	for _, c := range res.Components {
		comp := Component{ID: c.ComponentID, Description: c.Description, Primitives: []Primitive{}}
		for _, p := range c.Primitives {
			comp.Primitives = append(comp.Primitives, FromPrimitive(p))
		}
		out.Components = append(out.Components, comp)
	}
	for _, w := range res.Wires {
		out.Wires = append(out.Wires, FromPrimitive(w.Line))
	}
	for _, err := range res.Errors {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}

// Member is a connection point at a junction location.
type Member struct {
	connection.Ref
	Edge        bool   `json:"edge"`
	Orientation string `json:"orientation"`
}

// Connection is the encodable form of a connection.VisualisedConnection.
type Connection struct {
	Location geom.Point `json:"location"`
	Render   bool       `json:"render"`
	Members  []Member   `json:"members"`
}

// Connections is the encodable form of a connection.Result.
type Connections struct {
	Connections []Connection      `json:"connections"`
	Nets        []*connection.Net `json:"nets"`
	Errors      []string          `json:"errors,omitempty"`
}

// FromConnections converts the outcome of a visualisation pass.
func FromConnections(res *connection.Result) Connections {
	out := Connections{Connections: []Connection{}, Nets: res.Netlist.Nets}
	if out.Nets == nil {
		out.Nets = []*connection.Net{}
	}
	for _, vc := range res.Connections {
		c := Connection{Location: vc.Location, Render: vc.Render}
		for _, m := range vc.Members {
			c.Members = append(c.Members, Member{
				Ref:         m.Ref,
				Edge:        m.Point.IsEdge(),
				Orientation: m.Point.Orientation().String(),
			})
		}
		out.Connections = append(out.Connections, c)
	}
	for _, err := range res.Errors {
		out.Errors = append(out.Errors, err.Error())
	}
	return out
}
