// Package render resolves component descriptions against placed instances
// into renderer-agnostic drawing primitives.
package render

import (
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/svgpath"
)

// Primitive is a resolved drawing instruction in document coordinates.
// Implementations are Line, Rectangle, Ellipse, Path and Text.
type Primitive interface {
	// Kind names the primitive ("line", "rect", "ellipse", "path", "text")
	Kind() string
	primitive()
}

type Line struct {
	Start     geom.Point
	End       geom.Point
	Thickness float64
}

type Rectangle struct {
	Location  geom.Point // top-left corner
	Width     float64
	Height    float64
	Thickness float64
	Fill      bool
}

type Ellipse struct {
	Centre    geom.Point
	RadiusX   float64
	RadiusY   float64
	Thickness float64
	Fill      bool
}

// Path commands are relative to Start.
type Path struct {
	Start     geom.Point
	Thickness float64
	Fill      bool
	Commands  []svgpath.Command
}

// Text holds runs whose property references have been substituted.
type Text struct {
	Location  geom.Point
	Alignment description.TextAlignment
	Rotation  description.TextRotation
	Runs      []description.TextRun
}

func (Line) Kind() string      { return "line" }
func (Rectangle) Kind() string { return "rect" }
func (Ellipse) Kind() string   { return "ellipse" }
func (Path) Kind() string      { return "path" }
func (Text) Kind() string      { return "text" }

func (Line) primitive()      {}
func (Rectangle) primitive() {}
func (Ellipse) primitive()   {}
func (Path) primitive()      {}
func (Text) primitive()      {}

// String concatenates the text of all runs.
func (t Text) String() string {
	var s string
	for _, r := range t.Runs {
		s += r.Text
	}
	return s
}
