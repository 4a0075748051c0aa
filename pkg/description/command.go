package description

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/svgpath"
)

// AutoRotate controls how horizontal-only geometry is adapted for
// vertical instances.
type AutoRotate int

const (
	AutoRotateOff AutoRotate = iota
	// AutoRotateOn mirrors the geometry across the diagonal.
	AutoRotateOn
	// AutoRotateWithFlip mirrors across the diagonal then flips the X axis,
	// a true quarter turn.
	AutoRotateWithFlip
)

// ParseAutoRotate accepts "", "false", "off", "true", "on" and "withflip".
func ParseAutoRotate(s string) (AutoRotate, error) {
	switch s {
	case "", "false", "off":
		return AutoRotateOff, nil
	case "true", "on":
		return AutoRotateOn, nil
	case "withflip", "WithFlip":
		return AutoRotateWithFlip, nil
	}
	return AutoRotateOff, fmt.Errorf("description: unknown autorotate %q", s)
}

// RenderCommand is a drawing instruction. Implementations are Line,
// Rectangle, Ellipse, Path and Text.
type RenderCommand interface {
	// Reflect mirrors the command across the diagonal
	Reflect() RenderCommand
	// Flip mirrors the command along the X (horizontal=true) or Y axis
	Flip(horizontal bool) RenderCommand
	renderCommand()
}

// RenderDescription is a group of commands drawn when Conditions hold.
type RenderDescription struct {
	Conditions condition.Tree
	AutoRotate AutoRotate
	Commands   []RenderCommand
}

type Line struct {
	Start     ComponentPoint
	End       ComponentPoint
	Thickness float64
}

// Rectangle is anchored at its top-left corner.
type Rectangle struct {
	Location  ComponentPoint
	Width     float64
	Height    float64
	Thickness float64
	Fill      bool
}

type Ellipse struct {
	Centre    ComponentPoint
	RadiusX   float64
	RadiusY   float64
	Thickness float64
	Fill      bool
}

// Path draws SVG path commands relative to Start.
type Path struct {
	Start     ComponentPoint
	Thickness float64
	Fill      bool
	Commands  []svgpath.Command
}

type Text struct {
	Location  ComponentPoint
	Alignment TextAlignment
	Rotation  TextRotation
	Runs      []TextRun
}

func (Line) renderCommand()      {}
func (Rectangle) renderCommand() {}
func (Ellipse) renderCommand()   {}
func (Path) renderCommand()      {}
func (Text) renderCommand()      {}

func (c Line) Reflect() RenderCommand {
	return Line{Start: c.Start.Reflect(), End: c.End.Reflect(), Thickness: c.Thickness}
}

func (c Line) Flip(horizontal bool) RenderCommand {
	return Line{Start: c.Start.Flip(horizontal), End: c.End.Flip(horizontal), Thickness: c.Thickness}
}

func (c Rectangle) Reflect() RenderCommand {
	c.Location = c.Location.Reflect()
	c.Width, c.Height = c.Height, c.Width
	return c
}

// Flip keeps the location on the top-left corner of the mirrored rectangle.
func (c Rectangle) Flip(horizontal bool) RenderCommand {
	c.Location = c.Location.Flip(horizontal)
	if horizontal {
		c.Location.Offset.X -= c.Width
	} else {
		c.Location.Offset.Y -= c.Height
	}
	return c
}

func (c Ellipse) Reflect() RenderCommand {
	c.Centre = c.Centre.Reflect()
	c.RadiusX, c.RadiusY = c.RadiusY, c.RadiusX
	return c
}

func (c Ellipse) Flip(horizontal bool) RenderCommand {
	c.Centre = c.Centre.Flip(horizontal)
	return c
}

func (c Path) Reflect() RenderCommand {
	c.Start = c.Start.Reflect()
	c.Commands = svgpath.ReflectAll(c.Commands)
	return c
}

func (c Path) Flip(horizontal bool) RenderCommand {
	c.Start = c.Start.Flip(horizontal)
	c.Commands = svgpath.FlipAll(c.Commands, horizontal)
	return c
}

func (c Text) Reflect() RenderCommand {
	c.Location = c.Location.Reflect()
	c.Alignment = c.Alignment.Reflect()
	return c
}

func (c Text) Flip(horizontal bool) RenderCommand {
	c.Location = c.Location.Flip(horizontal)
	c.Alignment = c.Alignment.Flip(horizontal)
	return c
}

// TextAlignment is the anchor of a text block relative to its location.
type TextAlignment int

const (
	TopLeft TextAlignment = iota
	TopCentre
	TopRight
	CentreLeft
	CentreCentre
	CentreRight
	BottomLeft
	BottomCentre
	BottomRight
)

var alignmentNames = [...]string{
	"TopLeft", "TopCentre", "TopRight",
	"CentreLeft", "CentreCentre", "CentreRight",
	"BottomLeft", "BottomCentre", "BottomRight",
}

func (a TextAlignment) String() string {
	if a < 0 || int(a) >= len(alignmentNames) {
		return fmt.Sprintf("TextAlignment(%d)", int(a))
	}
	return alignmentNames[a]
}

// ParseTextAlignment accepts the alignment names, with "Center" spellings.
func ParseTextAlignment(s string) (TextAlignment, error) {
	for i, name := range alignmentNames {
		if s == name || s == strings.ReplaceAll(name, "Centre", "Center") {
			return TextAlignment(i), nil
		}
	}
	return TopLeft, fmt.Errorf("description: unknown text alignment %q", s)
}

func alignment(row, col int) TextAlignment { return TextAlignment(row*3 + col) }

func (a TextAlignment) row() int { return int(a) / 3 }
func (a TextAlignment) col() int { return int(a) % 3 }

// Flip mirrors the alignment along the X (horizontal=true) or Y axis.
func (a TextAlignment) Flip(horizontal bool) TextAlignment {
	if horizontal {
		return alignment(a.row(), 2-a.col())
	}
	return alignment(2-a.row(), a.col())
}

// Reflect exchanges the vertical and horizontal components.
func (a TextAlignment) Reflect() TextAlignment {
	return alignment(a.col(), a.row())
}

// TextRotation is a clockwise quarter-turn count.
type TextRotation int

const (
	Rotate0 TextRotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// ParseTextRotation accepts degrees: 0, 90, 180 or 270.
func ParseTextRotation(s string) (TextRotation, error) {
	switch s {
	case "", "0":
		return Rotate0, nil
	case "90":
		return Rotate90, nil
	case "180":
		return Rotate180, nil
	case "270":
		return Rotate270, nil
	}
	return Rotate0, fmt.Errorf("description: unsupported text rotation %q", s)
}

// Degrees returns the rotation angle.
func (r TextRotation) Degrees() int { return int(r) * 90 }

// TextRunMode positions a run relative to the baseline.
type TextRunMode int

const (
	RunNormal TextRunMode = iota
	RunSuperscript
	RunSubscript
)

func (m TextRunMode) String() string {
	switch m {
	case RunSuperscript:
		return "superscript"
	case RunSubscript:
		return "subscript"
	}
	return "normal"
}

// TextFormatting styles a run.
type TextFormatting struct {
	Size float64
	Mode TextRunMode
}

// DefaultTextSize is the font size of runs that do not set one.
const DefaultTextSize = 11.0

// TextRun is a span of text; Text may reference properties as $Name.
type TextRun struct {
	Text       string
	Formatting TextFormatting
}
