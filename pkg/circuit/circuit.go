// Package circuit models placed component instances and wires.
package circuit

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/geom"
)

// ComponentType identifies the description an instance uses. Any of the
// fields may be empty; lookup tries ID, then Name, then Collection+Item.
type ComponentType struct {
	ID         uuid.UUID
	Name       string
	Collection string
	Item       string
}

func (t ComponentType) String() string {
	switch {
	case t.ID != uuid.Nil:
		return t.ID.String()
	case t.Name != "":
		return t.Name
	case t.Collection != "":
		return t.Collection + ":" + t.Item
	}
	return "<unnamed>"
}

// Component is a placed instance of a component type.
type Component struct {
	ID            string
	Type          ComponentType
	Configuration string
	Properties    map[string]condition.Value
	Layout        geom.Layout
}

// IsHorizontal reports the instance orientation.
func (c *Component) IsHorizontal() bool {
	return c.Layout.Orientation == geom.Horizontal
}

// Wire is a straight axis-aligned conductor.
type Wire struct {
	ID     string
	Layout geom.Layout
}

// Document is a set of placed components and wires.
type Document struct {
	Components []*Component
	Wires      []*Wire
}

// Component looks up a component by ID.
func (d *Document) Component(id string) (*Component, bool) {
	for _, c := range d.Components {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Validate checks instance invariants: unique IDs and non-negative sizes.
func (d *Document) Validate() error {
	seen := make(map[string]bool)
	check := func(kind, id string, l geom.Layout) error {
		if id == "" {
			return fmt.Errorf("circuit: %s without id", kind)
		}
		if seen[id] {
			return fmt.Errorf("circuit: duplicate id %q", id)
		}
		seen[id] = true
		if l.Size < 0 {
			return fmt.Errorf("circuit: %s %q has negative size", kind, id)
		}
		return nil
	}
	for _, c := range d.Components {
		if err := check("component", c.ID, c.Layout); err != nil {
			return err
		}
	}
	for _, w := range d.Wires {
		if err := check("wire", w.ID, w.Layout); err != nil {
			return err
		}
	}
	return nil
}
