package render

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// WireThickness is the stroke width of wires.
const WireThickness = 2.0

// Resolve draws c using d. Every render group whose condition holds is
// drawn, in declaration order, each in command order.
func Resolve(d *description.ComponentDescription, c *circuit.Component, opts description.LayoutOptions) ([]Primitive, error) {
	b := d.Bind(c)
	opts = b.LayoutOptions(opts)
	flip := b.EffectiveFlip()

	layout := c.Layout
	layout.Flip = geom.FlipNone

	var out []Primitive
	for _, g := range d.Render {
		if !g.Conditions.IsMet(b) {
			continue
		}
		for _, cmd := range g.Commands {
			cmd = Orient(cmd, g.AutoRotate, layout.Orientation)
			cmd = applyFlip(cmd, flip, layout.Orientation)
			p, err := resolveCommand(cmd, layout, opts, b)
			if err != nil {
				return nil, fmt.Errorf("render: %s: %w", c.ID, err)
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// Orient adapts cmd to a vertical instance according to rotate. Geometry
// is mirrored before any point is resolved since anchors are axis relative.
func Orient(cmd description.RenderCommand, rotate description.AutoRotate, o geom.Orientation) description.RenderCommand {
	if rotate == description.AutoRotateOff || o != geom.Vertical {
		return cmd
	}
	cmd = cmd.Reflect()
	if rotate == description.AutoRotateWithFlip {
		cmd = cmd.Flip(true)
	}
	return cmd
}

func applyFlip(cmd description.RenderCommand, flip geom.FlipState, o geom.Orientation) description.RenderCommand {
	for _, horizontal := range []bool{true, false} {
		if flip.FlipsAxis(o, horizontal) {
			cmd = cmd.Flip(horizontal)
		}
	}
	return cmd
}

func resolveCommand(cmd description.RenderCommand, layout geom.Layout, opts description.LayoutOptions, b *description.Binding) (Primitive, error) {
	switch c := cmd.(type) {
	case description.Line:
		return Line{
			Start:     c.Start.Resolve(layout, opts),
			End:       c.End.Resolve(layout, opts),
			Thickness: c.Thickness,
		}, nil
	case description.Rectangle:
		return Rectangle{
			Location:  c.Location.Resolve(layout, opts),
			Width:     c.Width,
			Height:    c.Height,
			Thickness: c.Thickness,
			Fill:      c.Fill,
		}, nil
	case description.Ellipse:
		return Ellipse{
			Centre:    c.Centre.Resolve(layout, opts),
			RadiusX:   c.RadiusX,
			RadiusY:   c.RadiusY,
			Thickness: c.Thickness,
			Fill:      c.Fill,
		}, nil
	case description.Path:
		return Path{
			Start:     c.Start.Resolve(layout, opts),
			Thickness: c.Thickness,
			Fill:      c.Fill,
			Commands:  c.Commands,
		}, nil
	case description.Text:
		runs := make([]description.TextRun, len(c.Runs))
		for i, r := range c.Runs {
			text, err := b.FormatText(r.Text)
			if err != nil {
				return nil, err
			}
			runs[i] = description.TextRun{Text: text, Formatting: r.Formatting}
		}
		return Text{
			Location:  c.Location.Resolve(layout, opts),
			Alignment: c.Alignment,
			Rotation:  c.Rotation,
			Runs:      runs,
		}, nil
	}
	panic(fmt.Sprintf("render: unknown command %T", cmd))
}
