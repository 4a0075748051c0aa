package description

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
)

// ConnectionEdge marks which ends of a connection are edges that other
// connections attach to.
type ConnectionEdge int

const (
	EdgeNone ConnectionEdge = iota
	EdgeStart
	EdgeEnd
	EdgeBoth
)

func (e ConnectionEdge) String() string {
	switch e {
	case EdgeStart:
		return "start"
	case EdgeEnd:
		return "end"
	case EdgeBoth:
		return "both"
	}
	return "none"
}

// ParseConnectionEdge accepts "none", "start", "end" and "both".
func ParseConnectionEdge(s string) (ConnectionEdge, error) {
	switch s {
	case "", "none":
		return EdgeNone, nil
	case "start":
		return EdgeStart, nil
	case "end":
		return EdgeEnd, nil
	case "both":
		return EdgeBoth, nil
	}
	return EdgeNone, fmt.Errorf("description: unknown connection edge %q", s)
}

// IsStart reports whether the start point is an edge.
func (e ConnectionEdge) IsStart() bool { return e == EdgeStart || e == EdgeBoth }

// IsEnd reports whether the end point is an edge.
func (e ConnectionEdge) IsEnd() bool { return e == EdgeEnd || e == EdgeBoth }

// Swap exchanges start and end.
func (e ConnectionEdge) Swap() ConnectionEdge {
	switch e {
	case EdgeStart:
		return EdgeEnd
	case EdgeEnd:
		return EdgeStart
	}
	return e
}

// ConnectionDescription is a straight run of connection points between two
// points. Name identifies the connection within its component.
type ConnectionDescription struct {
	Start ComponentPoint
	End   ComponentPoint
	Edge  ConnectionEdge
	Name  string
}

// Reflect mirrors both points across the diagonal.
func (c ConnectionDescription) Reflect() ConnectionDescription {
	c.Start, c.End = c.Start.Reflect(), c.End.Reflect()
	return c
}

// Flip mirrors both points along the X (horizontal=true) or Y axis.
func (c ConnectionDescription) Flip(horizontal bool) ConnectionDescription {
	c.Start, c.End = c.Start.Flip(horizontal), c.End.Flip(horizontal)
	return c
}

// ConnectionGroup is a set of connections present when Conditions hold.
type ConnectionGroup struct {
	Conditions  condition.Tree
	AutoRotate  AutoRotate
	Connections []ConnectionDescription
}
