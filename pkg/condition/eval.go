package condition

import "fmt"

// State is the view of a component instance that conditions are evaluated
// against.
type State interface {
	// IsHorizontal reports the instance orientation
	IsHorizontal() bool
	// Property returns the resolved value of a declared property
	Property(name string) (Value, bool)
}

// IsMet evaluates t against s. Referencing a property that s does not know
// is a contract violation: descriptions are validated when they are loaded.
func (t Tree) IsMet(s State) bool {
	switch t.Op {
	case OpAlways:
		return true
	case OpLeaf:
		return t.Leaf.IsMet(s)
	case OpAnd:
		return t.Left.IsMet(s) && t.Right.IsMet(s)
	case OpOr:
		return t.Left.IsMet(s) || t.Right.IsMet(s)
	}
	panic(fmt.Sprintf("condition: unknown node %d", t.Op))
}

// IsMet evaluates a single leaf against s.
func (l Leaf) IsMet(s State) bool {
	var v Value
	switch l.Kind {
	case StateLeaf:
		if l.Name != StateHorizontal {
			panic(fmt.Sprintf("condition: unknown state %q", l.Name))
		}
		v = Bool(s.IsHorizontal())
	case PropertyLeaf:
		var ok bool
		v, ok = s.Property(l.Name)
		if !ok {
			panic(fmt.Sprintf("condition: property %q is not declared", l.Name))
		}
	default:
		panic(fmt.Sprintf("condition: unknown leaf kind %d", l.Kind))
	}
	return v.Compare(l.Comparison, l.Value)
}

// MapState is a State backed by a map, used in tests and for wires.
type MapState struct {
	Horizontal bool
	Values     map[string]Value
}

func (m MapState) IsHorizontal() bool { return m.Horizontal }

func (m MapState) Property(name string) (Value, bool) {
	v, ok := m.Values[name]
	return v, ok
}
