package connection

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

// WireConnectionName is the name of the single connection of a wire.
const WireConnectionName = "#"

// WireDescription is the reserved description wires are positioned with:
// one connection running the full length, attachable at both ends.
var WireDescription = &description.ComponentDescription{
	Name: "wire",
	Connections: []description.ConnectionGroup{{
		Connections: []description.ConnectionDescription{{
			Start: description.Point(description.Start, description.Start, 0, 0),
			End:   description.Point(description.End, description.End, 0, 0),
			Edge:  description.EdgeBoth,
			Name:  WireConnectionName,
		}},
	}},
}

// Member is one connection point taking part in a junction.
type Member struct {
	Ref   Ref
	Point ConnectionPoint
}

// VisualisedConnection is a location where connections meet.
type VisualisedConnection struct {
	Location geom.Point
	Members  []Member
	// Render is set when a junction marker should be drawn.
	Render bool
}

// Result is the outcome of a visualisation pass.
type Result struct {
	Connections []VisualisedConnection
	Netlist     *Netlist
	// Errors lists components that were skipped, typically because their
	// description is missing.
	Errors []error
}

// Junctions returns the connections that should be drawn with a marker.
func (r *Result) Junctions() []VisualisedConnection {
	var out []VisualisedConnection
	for _, c := range r.Connections {
		if c.Render {
			out = append(out, c)
		}
	}
	return out
}

// Visualise finds every location where connection points of doc coincide,
// joins the underlying connections into nets and decides which locations
// get a junction marker. The whole document is processed on every call.
func Visualise(doc *circuit.Document, lookup registry.Lookup, opts description.LayoutOptions) *Result {
	res := &Result{Netlist: NewNetlist()}
	byLocation := make(map[geom.Point][]Member)
	var order []geom.Point

	collect := func(ref Ref, p ConnectionPoint) {
		res.Netlist.Add(ref)
		if _, ok := byLocation[p.Location]; !ok {
			order = append(order, p.Location)
		}
		byLocation[p.Location] = append(byLocation[p.Location], Member{Ref: ref, Point: p})
	}

	for _, c := range doc.Components {
		d, err := lookup.Lookup(c.Type)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("connection: component %s: %w", c.ID, err))
			continue
		}
		for _, p := range Position(d, c, opts) {
			collect(Ref{ComponentID: c.ID, Name: p.Name}, p)
		}
	}
	for _, w := range doc.Wires {
		synthetic := &circuit.Component{ID: w.ID, Layout: geom.Layout{
			Location:    w.Layout.Location,
			Size:        w.Layout.Size,
			Orientation: w.Layout.Orientation,
		}}
		for _, p := range Position(WireDescription, synthetic, opts) {
			collect(Ref{ComponentID: w.ID, Name: p.Name, Wire: true}, p)
		}
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].Less(order[j]) })
	for _, loc := range order {
		members := byLocation[loc]
		if len(members) < 2 || !anyEdge(members) {
			continue
		}
		for i := range members {
			for j := i + 1; j < len(members); j++ {
				res.Netlist.Connect(members[i].Ref, members[j].Ref)
			}
		}
		points := make([]ConnectionPoint, len(members))
		for i, m := range members {
			points[i] = m.Point
		}
		res.Connections = append(res.Connections, VisualisedConnection{
			Location: loc,
			Members:  members,
			Render:   ShouldRender(points),
		})
	}
	res.Netlist.Finalize()
	return res
}

func anyEdge(members []Member) bool {
	for _, m := range members {
		if m.Point.IsEdge() {
			return true
		}
	}
	return false
}

// ShouldRender decides whether coincident points need a junction marker.
// A marker is drawn where an edge meets a non-edge point of the other
// orientation, or where edges of both orientations meet. Edges meeting in
// a straight line are left unmarked.
func ShouldRender(points []ConnectionPoint) bool {
	if len(points) < 2 {
		return false
	}

	var edges, others Flags
	for _, p := range points {
		f := orientationFlag(p.Orientation())
		if p.IsEdge() {
			edges |= f
		} else {
			others |= f
		}
	}

	both := Horizontal | Vertical
	switch {
	case edges == 0:
		return false
	case edges == both:
		return true
	case others != 0 && others != edges:
		return true
	}
	return false
}
