package render

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/circuit"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/registry"
)

// ComponentResult holds the primitives of one component.
type ComponentResult struct {
	ComponentID string
	Description string
	Primitives  []Primitive
}

// WireResult holds the line drawn for one wire.
type WireResult struct {
	WireID string
	Line   Line
}

// DocumentResult is a rendered document. Components whose description is
// missing or fails to render are left out and reported in Errors.
type DocumentResult struct {
	Components []ComponentResult
	Wires      []WireResult
	Errors     []error
}

// ComponentError attributes a rendering failure to a component.
type ComponentError struct {
	ComponentID string
	Err         error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("render: component %s: %v", e.ComponentID, e.Err)
}

func (e *ComponentError) Unwrap() error { return e.Err }

// RenderDocument draws every component and wire of doc.
func RenderDocument(doc *circuit.Document, lookup registry.Lookup, opts description.LayoutOptions) *DocumentResult {
	res := &DocumentResult{}
	for _, c := range doc.Components {
		d, err := lookup.Lookup(c.Type)
		if err != nil {
			res.Errors = append(res.Errors, &ComponentError{ComponentID: c.ID, Err: err})
			continue
		}
		prims, err := Resolve(d, c, opts)
		if err != nil {
			res.Errors = append(res.Errors, &ComponentError{ComponentID: c.ID, Err: err})
			continue
		}
		res.Components = append(res.Components, ComponentResult{
			ComponentID: c.ID,
			Description: d.Name,
			Primitives:  prims,
		})
	}
	for _, w := range doc.Wires {
		line := Line{Start: w.Layout.Location, End: w.Layout.End(), Thickness: WireThickness}
		if !opts.Absolute {
			line.End = geom.Point{}.Add(line.End.Sub(line.Start))
			line.Start = geom.Point{}
		}
		res.Wires = append(res.Wires, WireResult{WireID: w.ID, Line: line})
	}
	return res
}
