// Package connection positions connection points on placed components and
// decides how coincident points join up into junctions and nets.
package connection

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Flags classify a connection point.
type Flags uint8

const (
	Horizontal Flags = 1 << iota
	Vertical
	Edge
)

func (f Flags) String() string {
	s := "vertical"
	if f&Horizontal != 0 {
		s = "horizontal"
	}
	if f&Edge != 0 {
		s += "|edge"
	}
	return s
}

// ConnectionPoint is one grid position of a connection.
type ConnectionPoint struct {
	Location geom.Point
	Name     string
	Flags    Flags
}

// IsEdge reports whether other connections can attach here.
func (p ConnectionPoint) IsEdge() bool { return p.Flags&Edge != 0 }

// Orientation returns the axis the connection runs along. A point must
// carry exactly one orientation flag.
func (p ConnectionPoint) Orientation() geom.Orientation {
	switch p.Flags & (Horizontal | Vertical) {
	case Horizontal:
		return geom.Horizontal
	case Vertical:
		return geom.Vertical
	}
	panic(fmt.Sprintf("connection: point %s at %s has flags %08b", p.Name, p.Location, p.Flags))
}

func orientationFlag(o geom.Orientation) Flags {
	if o == geom.Vertical {
		return Vertical
	}
	return Horizontal
}

// Position emits the connection points of c. Each connection is resolved,
// ordered from its minimum to its maximum point, snapped inward to the grid
// and stepped in grid increments. Edge flags follow the logical endpoints,
// so they survive normalisation and mirroring.
func Position(d *description.ComponentDescription, c *circuit.Component, opts description.LayoutOptions) []ConnectionPoint {
	b := d.Bind(c)
	opts = b.LayoutOptions(opts)
	layout := c.Layout
	layout.Flip = b.EffectiveFlip()

	var out []ConnectionPoint
	for _, g := range d.Connections {
		if !g.Conditions.IsMet(b) {
			continue
		}
		for _, conn := range g.Connections {
			conn = orient(conn, g.AutoRotate, layout.Orientation)
			out = append(out, step(conn, layout, opts)...)
		}
	}
	return out
}

func orient(conn description.ConnectionDescription, rotate description.AutoRotate, o geom.Orientation) description.ConnectionDescription {
	if rotate == description.AutoRotateOff || o != geom.Vertical {
		return conn
	}
	conn = conn.Reflect()
	if rotate == description.AutoRotateWithFlip {
		conn = conn.Flip(true)
	}
	return conn
}

func step(conn description.ConnectionDescription, layout geom.Layout, opts description.LayoutOptions) []ConnectionPoint {
	grid := opts.GridSize
	if grid <= 0 {
		grid = geom.DefaultGridSize
	}

	start := conn.Start.Resolve(layout, opts)
	end := conn.End.Resolve(layout, opts)
	edge := conn.Edge
	if end.Less(start) {
		start, end = end, start
		edge = edge.Swap()
	}

	var (
		o      geom.Orientation
		length float64
	)
	switch {
	case start == end:
		// a single point snaps along the instance orientation
		o = layout.Orientation
	case start.Y == end.Y:
		o = geom.Horizontal
	case start.X == end.X:
		o = geom.Vertical
	default:
		// not axis aligned: only the endpoints can be joined
		f := orientationFlag(layout.Orientation)
		return []ConnectionPoint{
			{Location: start, Name: conn.Name, Flags: f | edgeFlag(edge.IsStart())},
			{Location: end, Name: conn.Name, Flags: f | edgeFlag(edge.IsEnd())},
		}
	}
	if o == geom.Horizontal {
		start.X, end.X = geom.SnapUp(start.X, grid), geom.SnapDown(end.X, grid)
		length = end.X - start.X
	} else {
		start.Y, end.Y = geom.SnapUp(start.Y, grid), geom.SnapDown(end.Y, grid)
		length = end.Y - start.Y
	}
	if length < 0 {
		return nil
	}

	n := int(math.Floor(length/grid+1e-9)) + 1
	out := make([]ConnectionPoint, n)
	for i := range out {
		loc := start
		if o == geom.Horizontal {
			loc.X += float64(i) * grid
		} else {
			loc.Y += float64(i) * grid
		}
		flags := orientationFlag(o)
		if i == 0 && edge.IsStart() || i == n-1 && edge.IsEnd() {
			flags |= Edge
		}
		out[i] = ConnectionPoint{Location: loc, Name: conn.Name, Flags: flags}
	}
	return out
}

func edgeFlag(set bool) Flags {
	if set {
		return Edge
	}
	return 0
}
