// Package svgpath holds the path commands used by path render commands.
//
// Coordinates are relative to the path's start point. Every command can be
// mirrored with Flip and reflected across the diagonal with Reflect, which is
// how auto-rotated and flipped components reuse horizontal geometry.
package svgpath

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// Command is one of MoveTo, LineTo, CurveTo, QuadraticBezierTo,
// SmoothCurveTo, SmoothQuadraticBezierTo, EllipticalArcTo or ClosePath.
type Command interface {
	// Flip negates X when horizontal is true, otherwise Y
	Flip(horizontal bool) Command
	// Reflect swaps the X and Y axes
	Reflect() Command
	// Name is the SVG command letter in absolute form
	Name() string

	command()
}

// SweepDirection is the direction an elliptical arc is drawn in.
type SweepDirection int

const (
	Counterclockwise SweepDirection = iota
	Clockwise
)

// Opposite returns the other sweep direction.
func (s SweepDirection) Opposite() SweepDirection {
	if s == Clockwise {
		return Counterclockwise
	}
	return Clockwise
}

type MoveTo struct {
	To geom.Point
}

type LineTo struct {
	To geom.Point
}

// CurveTo is a cubic Bézier segment.
type CurveTo struct {
	Control1 geom.Point
	Control2 geom.Point
	To       geom.Point
}

type QuadraticBezierTo struct {
	Control geom.Point
	To      geom.Point
}

// SmoothCurveTo is a cubic segment whose first control point is the
// reflection of the previous segment's second control point.
type SmoothCurveTo struct {
	Control2 geom.Point
	To       geom.Point
}

// SmoothQuadraticBezierTo is a quadratic segment whose control point is the
// reflection of the previous segment's control point.
type SmoothQuadraticBezierTo struct {
	To geom.Point
}

type EllipticalArcTo struct {
	Radii    geom.Vector
	Rotation float64 // x-axis rotation in degrees
	LargeArc bool
	Sweep    SweepDirection
	To       geom.Point
}

type ClosePath struct{}

func (MoveTo) command()                  {}
func (LineTo) command()                  {}
func (CurveTo) command()                 {}
func (QuadraticBezierTo) command()       {}
func (SmoothCurveTo) command()           {}
func (SmoothQuadraticBezierTo) command() {}
func (EllipticalArcTo) command()         {}
func (ClosePath) command()               {}

func (MoveTo) Name() string                  { return "M" }
func (LineTo) Name() string                  { return "L" }
func (CurveTo) Name() string                 { return "C" }
func (QuadraticBezierTo) Name() string       { return "Q" }
func (SmoothCurveTo) Name() string           { return "S" }
func (SmoothQuadraticBezierTo) Name() string { return "T" }
func (EllipticalArcTo) Name() string         { return "A" }
func (ClosePath) Name() string               { return "Z" }

func flipPoint(p geom.Point, horizontal bool) geom.Point {
	if horizontal {
		return geom.Point{X: -p.X, Y: p.Y}
	}
	return geom.Point{X: p.X, Y: -p.Y}
}

func reflectPoint(p geom.Point) geom.Point {
	return geom.Point{X: p.Y, Y: p.X}
}

func (c MoveTo) Flip(h bool) Command { return MoveTo{To: flipPoint(c.To, h)} }
func (c MoveTo) Reflect() Command    { return MoveTo{To: reflectPoint(c.To)} }

func (c LineTo) Flip(h bool) Command { return LineTo{To: flipPoint(c.To, h)} }
func (c LineTo) Reflect() Command    { return LineTo{To: reflectPoint(c.To)} }

func (c CurveTo) Flip(h bool) Command {
	return CurveTo{Control1: flipPoint(c.Control1, h), Control2: flipPoint(c.Control2, h), To: flipPoint(c.To, h)}
}

func (c CurveTo) Reflect() Command {
	return CurveTo{Control1: reflectPoint(c.Control1), Control2: reflectPoint(c.Control2), To: reflectPoint(c.To)}
}

func (c QuadraticBezierTo) Flip(h bool) Command {
	return QuadraticBezierTo{Control: flipPoint(c.Control, h), To: flipPoint(c.To, h)}
}

func (c QuadraticBezierTo) Reflect() Command {
	return QuadraticBezierTo{Control: reflectPoint(c.Control), To: reflectPoint(c.To)}
}

func (c SmoothCurveTo) Flip(h bool) Command {
	return SmoothCurveTo{Control2: flipPoint(c.Control2, h), To: flipPoint(c.To, h)}
}

func (c SmoothCurveTo) Reflect() Command {
	return SmoothCurveTo{Control2: reflectPoint(c.Control2), To: reflectPoint(c.To)}
}

func (c SmoothQuadraticBezierTo) Flip(h bool) Command {
	return SmoothQuadraticBezierTo{To: flipPoint(c.To, h)}
}

func (c SmoothQuadraticBezierTo) Reflect() Command {
	return SmoothQuadraticBezierTo{To: reflectPoint(c.To)}
}

// Flip mirrors the arc; mirroring reverses the sweep and the axis rotation.
func (c EllipticalArcTo) Flip(h bool) Command {
	return EllipticalArcTo{
		Radii:    c.Radii,
		Rotation: -c.Rotation,
		LargeArc: c.LargeArc,
		Sweep:    c.Sweep.Opposite(),
		To:       flipPoint(c.To, h),
	}
}

// Reflect swaps the radii along with the axes.
func (c EllipticalArcTo) Reflect() Command {
	return EllipticalArcTo{
		Radii:    c.Radii.Swap(),
		Rotation: -c.Rotation,
		LargeArc: c.LargeArc,
		Sweep:    c.Sweep.Opposite(),
		To:       reflectPoint(c.To),
	}
}

func (c ClosePath) Flip(bool) Command { return c }
func (c ClosePath) Reflect() Command  { return c }

// End returns the point a command finishes at; ClosePath has none.
func End(c Command) (geom.Point, bool) {
	switch c := c.(type) {
	case MoveTo:
		return c.To, true
	case LineTo:
		return c.To, true
	case CurveTo:
		return c.To, true
	case QuadraticBezierTo:
		return c.To, true
	case SmoothCurveTo:
		return c.To, true
	case SmoothQuadraticBezierTo:
		return c.To, true
	case EllipticalArcTo:
		return c.To, true
	case ClosePath:
		return geom.Point{}, false
	}
	panic(fmt.Sprintf("svgpath: unknown command %T", c))
}

// FlipAll flips every command of a path.
func FlipAll(cmds []Command, horizontal bool) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		out[i] = c.Flip(horizontal)
	}
	return out
}

// ReflectAll reflects every command of a path.
func ReflectAll(cmds []Command) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		out[i] = c.Reflect()
	}
	return out
}
