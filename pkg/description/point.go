package description

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Anchor selects the reference position along one axis of a component.
type Anchor int

const (
	Start Anchor = iota
	Middle
	End
)

func (a Anchor) String() string {
	switch a {
	case Middle:
		return "_Middle"
	case End:
		return "_End"
	}
	return "_Start"
}

// ParseAnchor accepts "_Start", "_Middle" and "_End".
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "_Start":
		return Start, nil
	case "_Middle":
		return Middle, nil
	case "_End":
		return End, nil
	}
	return Start, fmt.Errorf("description: unknown anchor %q", s)
}

// Opposite swaps Start and End; Middle maps to itself.
func (a Anchor) Opposite() Anchor {
	switch a {
	case Start:
		return End
	case End:
		return Start
	}
	return a
}

// LayoutOptions controls how points resolve to coordinates.
type LayoutOptions struct {
	GridSize float64
	// AlignMiddle snaps Middle anchors down to the grid for descriptions
	// flagged MiddleMustAlign.
	AlignMiddle bool
	// Absolute adds the instance location; otherwise points are relative
	// to the instance origin.
	Absolute bool
}

// DefaultLayoutOptions returns options with the default grid and absolute
// coordinates.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{GridSize: geom.DefaultGridSize, AlignMiddle: true, Absolute: true}
}

// ComponentPoint is a position relative to a component's anchors.
type ComponentPoint struct {
	RelativeToX Anchor
	RelativeToY Anchor
	Offset      geom.Vector
}

// Point is shorthand for a ComponentPoint.
func Point(x, y Anchor, dx, dy float64) ComponentPoint {
	return ComponentPoint{RelativeToX: x, RelativeToY: y, Offset: geom.Vector{X: dx, Y: dy}}
}

func (p ComponentPoint) String() string {
	return fmt.Sprintf("%s%+gx %s%+gy", p.RelativeToX, p.Offset.X, p.RelativeToY, p.Offset.Y)
}

// Resolve converts p into a coordinate for an instance placed with layout.
// Only the primary axis has extent: anchors on the secondary axis all
// resolve to the instance origin. A flipped axis swaps Start and End and
// negates the offset.
func (p ComponentPoint) Resolve(layout geom.Layout, opts LayoutOptions) geom.Point {
	var origin geom.Point
	if opts.Absolute {
		origin = layout.Location
	}
	return geom.Point{
		X: origin.X + resolveAxis(p.RelativeToX, p.Offset.X, layout, opts, true),
		Y: origin.Y + resolveAxis(p.RelativeToY, p.Offset.Y, layout, opts, false),
	}
}

func resolveAxis(a Anchor, offset float64, layout geom.Layout, opts LayoutOptions, horizontal bool) float64 {
	if layout.Flip.FlipsAxis(layout.Orientation, horizontal) {
		a = a.Opposite()
		offset = -offset
	}
	if (layout.Orientation == geom.Horizontal) != horizontal {
		return offset
	}
	switch a {
	case Middle:
		mid := layout.Size / 2
		if opts.AlignMiddle {
			mid = geom.SnapDown(mid, opts.GridSize)
		}
		return mid + offset
	case End:
		return layout.Size + offset
	}
	return offset
}

// Reflect mirrors p across the diagonal, exchanging the axes.
func (p ComponentPoint) Reflect() ComponentPoint {
	return ComponentPoint{
		RelativeToX: p.RelativeToY,
		RelativeToY: p.RelativeToX,
		Offset:      p.Offset.Swap(),
	}
}

// Flip mirrors p along the X (horizontal=true) or Y axis.
func (p ComponentPoint) Flip(horizontal bool) ComponentPoint {
	if horizontal {
		p.RelativeToX = p.RelativeToX.Opposite()
		p.Offset.X = -p.Offset.X
	} else {
		p.RelativeToY = p.RelativeToY.Opposite()
		p.Offset.Y = -p.Offset.Y
	}
	return p
}
