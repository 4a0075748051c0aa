package definitions

import (
	"fmt"
	"slices"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/svgpath"
)

type Line struct {
	Start     description.PointTemplate
	End       description.PointTemplate
	Thickness float64
	Pos       diag.Position
}

type Rectangle struct {
	Location  description.PointTemplate
	Width     description.OffsetTemplate
	Height    description.OffsetTemplate
	Thickness float64
	Fill      bool
	Pos       diag.Position
}

type Ellipse struct {
	Centre    description.PointTemplate
	RadiusX   description.OffsetTemplate
	RadiusY   description.OffsetTemplate
	Thickness float64
	Fill      bool
	Pos       diag.Position
}

type Path struct {
	Start     description.PointTemplate
	Thickness float64
	Fill      bool
	Commands  []svgpath.Command
	Pos       diag.Position
}

type Text struct {
	Location  description.PointTemplate
	Alignment description.TextAlignment
	Rotation  description.TextRotation
	Runs      []description.TextRun // run text may contain one {variable}
	Pos       diag.Position
}

func (c *Line) Position() diag.Position      { return c.Pos }
func (c *Rectangle) Position() diag.Position { return c.Pos }
func (c *Ellipse) Position() diag.Position   { return c.Pos }
func (c *Path) Position() diag.Position      { return c.Pos }
func (c *Text) Position() diag.Position      { return c.Pos }

func (c *Line) Variables() []string { return pointVariables(c.Start, c.End) }

func (c *Line) Resolve(vars Values) (description.RenderCommand, error) {
	nums, err := vars.Numbers(c.Variables())
	if err != nil {
		return nil, err
	}
	start, err := c.Start.Resolve(nums)
	if err != nil {
		return nil, err
	}
	end, err := c.End.Resolve(nums)
	if err != nil {
		return nil, err
	}
	return description.Line{Start: start, End: end, Thickness: c.Thickness}, nil
}

func (c *Rectangle) Variables() []string {
	return offsetVariables(pointVariables(c.Location), c.Width, c.Height)
}

func (c *Rectangle) Resolve(vars Values) (description.RenderCommand, error) {
	nums, err := vars.Numbers(c.Variables())
	if err != nil {
		return nil, err
	}
	loc, err := c.Location.Resolve(nums)
	if err != nil {
		return nil, err
	}
	w, err := c.Width.Resolve(nums)
	if err != nil {
		return nil, err
	}
	h, err := c.Height.Resolve(nums)
	if err != nil {
		return nil, err
	}
	return description.Rectangle{Location: loc, Width: w, Height: h, Thickness: c.Thickness, Fill: c.Fill}, nil
}

func (c *Ellipse) Variables() []string {
	return offsetVariables(pointVariables(c.Centre), c.RadiusX, c.RadiusY)
}

func (c *Ellipse) Resolve(vars Values) (description.RenderCommand, error) {
	nums, err := vars.Numbers(c.Variables())
	if err != nil {
		return nil, err
	}
	centre, err := c.Centre.Resolve(nums)
	if err != nil {
		return nil, err
	}
	rx, err := c.RadiusX.Resolve(nums)
	if err != nil {
		return nil, err
	}
	ry, err := c.RadiusY.Resolve(nums)
	if err != nil {
		return nil, err
	}
	return description.Ellipse{Centre: centre, RadiusX: rx, RadiusY: ry, Thickness: c.Thickness, Fill: c.Fill}, nil
}

func (c *Path) Variables() []string { return pointVariables(c.Start) }

func (c *Path) Resolve(vars Values) (description.RenderCommand, error) {
	nums, err := vars.Numbers(c.Variables())
	if err != nil {
		return nil, err
	}
	start, err := c.Start.Resolve(nums)
	if err != nil {
		return nil, err
	}
	return description.Path{Start: start, Thickness: c.Thickness, Fill: c.Fill, Commands: c.Commands}, nil
}

func (c *Text) Variables() []string {
	out := pointVariables(c.Location)
	for _, r := range c.Runs {
		for _, v := range RunVariables(r.Text) {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

func (c *Text) Resolve(vars Values) (description.RenderCommand, error) {
	nums, err := vars.Numbers(pointVariables(c.Location))
	if err != nil {
		return nil, err
	}
	loc, err := c.Location.Resolve(nums)
	if err != nil {
		return nil, err
	}
	runs := make([]description.TextRun, len(c.Runs))
	for i, r := range c.Runs {
		if n := len(RunVariables(r.Text)); n > 1 {
			return nil, fmt.Errorf("text run %q references %d variables, at most one is allowed", r.Text, n)
		}
		runs[i] = description.TextRun{Text: substituteRun(r.Text, vars), Formatting: r.Formatting}
	}
	return description.Text{Location: loc, Alignment: c.Alignment, Rotation: c.Rotation, Runs: runs}, nil
}

// FromCommand wraps a concrete command as a template with no variables.
func FromCommand(cmd description.RenderCommand, pos diag.Position) Command {
	switch c := cmd.(type) {
	case description.Line:
		return &Line{Start: description.Template(c.Start), End: description.Template(c.End), Thickness: c.Thickness, Pos: pos}
	case description.Rectangle:
		return &Rectangle{
			Location:  description.Template(c.Location),
			Width:     description.Offset(c.Width),
			Height:    description.Offset(c.Height),
			Thickness: c.Thickness,
			Fill:      c.Fill,
			Pos:       pos,
		}
	case description.Ellipse:
		return &Ellipse{
			Centre:    description.Template(c.Centre),
			RadiusX:   description.Offset(c.RadiusX),
			RadiusY:   description.Offset(c.RadiusY),
			Thickness: c.Thickness,
			Fill:      c.Fill,
			Pos:       pos,
		}
	case description.Path:
		return &Path{Start: description.Template(c.Start), Thickness: c.Thickness, Fill: c.Fill, Commands: c.Commands, Pos: pos}
	case description.Text:
		return &Text{Location: description.Template(c.Location), Alignment: c.Alignment, Rotation: c.Rotation, Runs: c.Runs, Pos: pos}
	}
	panic(fmt.Sprintf("definitions: unknown render command %T", cmd))
}
