// Package geom provides the coordinate types shared by the resolution engine.
// Coordinates are document units; the Y axis grows downward.
package geom

import (
	"fmt"
	"math"
)

// DefaultGridSize is the grid pitch used when none is configured.
const DefaultGridSize = 10.0

// Point represents a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
}

// Vector represents a 2D displacement.
type Vector struct {
	X float64 `json:"x" yaml:"x" msgpack:"x"`
	Y float64 `json:"y" yaml:"y" msgpack:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p displaced by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Vector {
	return Vector{X: p.X - o.X, Y: p.Y - o.Y}
}

// Less orders points by Y, then X.
func (p Point) Less(o Point) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Negate returns -v.
func (v Vector) Negate() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

// Swap exchanges the X and Y components.
func (v Vector) Swap() Vector {
	return Vector{X: v.Y, Y: v.X}
}

// Orientation is the axis a component's size is measured along.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation accepts "horizontal"/"h" and "vertical"/"v".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("geom: unknown orientation %q", s)
}

// Other returns the perpendicular orientation.
func (o Orientation) Other() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// FlipState records which axes of a placed component are mirrored.
// The primary axis is the orientation axis.
type FlipState uint8

const (
	FlipNone      FlipState = 0
	FlipPrimary   FlipState = 1 << 0
	FlipSecondary FlipState = 1 << 1
	FlipBoth                = FlipPrimary | FlipSecondary
)

// Has reports whether all bits of f are set.
func (s FlipState) Has(f FlipState) bool {
	return s&f == f && f != 0
}

// FlipsAxis reports whether the X (horizontal=true) or Y axis is mirrored
// for a component with the given orientation.
func (s FlipState) FlipsAxis(o Orientation, horizontal bool) bool {
	primary := (o == Horizontal) == horizontal
	if primary {
		return s.Has(FlipPrimary)
	}
	return s.Has(FlipSecondary)
}

// Layout describes where and how an instance is placed.
type Layout struct {
	Location    Point       `json:"location" yaml:"location"`
	Size        float64     `json:"size" yaml:"size"`
	Orientation Orientation `json:"orientation" yaml:"orientation"`
	Flip        FlipState   `json:"flip" yaml:"flip"`
}

// End returns the location displaced by the full size along the orientation axis.
func (l Layout) End() Point {
	if l.Orientation == Horizontal {
		return Point{X: l.Location.X + l.Size, Y: l.Location.Y}
	}
	return Point{X: l.Location.X, Y: l.Location.Y + l.Size}
}

// SnapUp rounds v up to the nearest multiple of grid.
func SnapUp(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Ceil(v/grid) * grid
}

// SnapDown rounds v down to the nearest multiple of grid.
func SnapDown(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Floor(v/grid) * grid
}
