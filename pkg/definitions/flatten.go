package definitions

import (
	"slices"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/diag"
)

// Flatten expands every templated element of src into concrete elements.
//
// Each distinct variable an element references is enumerated once, so a
// variable used on both axes of a point yields one consistent value per
// combination. Elements without variables stay in their group under the
// group condition, keeping non-templated input unchanged. An element that
// fails validation is dropped and reported; its siblings are kept.
func Flatten(src *Source) (*description.ComponentDescription, diag.Issues) {
	f := &flattener{defs: src.Definitions}

	desc := &description.ComponentDescription{}
	if src.Description != nil {
		*desc = *src.Description
	}
	desc.Connections = nil
	desc.Render = nil

	for _, g := range src.Connections {
		desc.Connections = append(desc.Connections, f.connectionGroup(g)...)
	}
	for _, g := range src.Render {
		desc.Render = append(desc.Render, f.renderGroup(g)...)
	}
	return desc, f.issues
}

type flattener struct {
	defs   Definitions
	issues diag.Issues
}

// combination is one choice of value per variable
type combination struct {
	values     Values
	conditions condition.Tree
}

// enumerate validates vars against whenDefined and the definitions, then
// returns the cross product of their values
func (f *flattener) enumerate(vars, whenDefined []string, pos diag.Position) ([]combination, bool) {
	ok := true
	for _, v := range vars {
		if !slices.Contains(whenDefined, v) {
			f.issues.Errorf(pos, "variable %q is used but not declared in whenDefined", v)
			ok = false
			continue
		}
		if len(f.defs[v]) == 0 {
			f.issues.Errorf(pos, "variable %q has no definition", v)
			ok = false
		}
	}
	if !ok {
		return nil, false
	}

	combos := []combination{{values: Values{}}}
	for _, v := range vars {
		var next []combination
		for _, c := range combos {
			for _, def := range f.defs[v] {
				values := make(Values, len(c.values)+1)
				for k, x := range c.values {
					values[k] = x
				}
				values[v] = def.Value
				next = append(next, combination{
					values:     values,
					conditions: condition.And(c.conditions, def.Conditions),
				})
			}
		}
		combos = next
	}
	return combos, true
}

func (f *flattener) connectionGroup(g ConnectionGroup) []description.ConnectionGroup {
	var out []description.ConnectionGroup
	current := description.ConnectionGroup{Conditions: g.Conditions, AutoRotate: g.AutoRotate}
	flush := func() {
		if len(current.Connections) > 0 {
			out = append(out, current)
		}
		current = description.ConnectionGroup{Conditions: g.Conditions, AutoRotate: g.AutoRotate}
	}

	for _, c := range g.Connections {
		vars := pointVariables(c.Start, c.End)
		if len(vars) == 0 {
			cd, err := resolveConnection(c, nil)
			if err != nil {
				f.issues.Errorf(c.Pos, "connection %q: %v", c.Name, err)
				continue
			}
			current.Connections = append(current.Connections, cd)
			continue
		}

		combos, ok := f.enumerate(vars, append(slices.Clone(g.WhenDefined), c.WhenDefined...), c.Pos)
		if !ok {
			continue
		}
		var expanded []description.ConnectionGroup
		for _, combo := range combos {
			nums, err := combo.values.Numbers(vars)
			if err == nil {
				var cd description.ConnectionDescription
				cd, err = resolveConnection(c, nums)
				if err == nil {
					expanded = append(expanded, description.ConnectionGroup{
						Conditions:  condition.And(g.Conditions, combo.conditions),
						AutoRotate:  g.AutoRotate,
						Connections: []description.ConnectionDescription{cd},
					})
					continue
				}
			}
			f.issues.Errorf(c.Pos, "connection %q: %v", c.Name, err)
			expanded = nil
			break
		}
		if expanded != nil {
			flush()
			out = append(out, expanded...)
		}
	}
	flush()

	if len(out) == 0 && len(g.Connections) == 0 {
		out = append(out, current)
	}
	return out
}

func resolveConnection(c Connection, nums map[string]float64) (description.ConnectionDescription, error) {
	start, err := c.Start.Resolve(nums)
	if err != nil {
		return description.ConnectionDescription{}, err
	}
	end, err := c.End.Resolve(nums)
	if err != nil {
		return description.ConnectionDescription{}, err
	}
	return description.ConnectionDescription{Start: start, End: end, Edge: c.Edge, Name: c.Name}, nil
}

func (f *flattener) renderGroup(g RenderGroup) []description.RenderDescription {
	var out []description.RenderDescription
	current := description.RenderDescription{Conditions: g.Conditions, AutoRotate: g.AutoRotate}
	flush := func() {
		if len(current.Commands) > 0 {
			out = append(out, current)
		}
		current = description.RenderDescription{Conditions: g.Conditions, AutoRotate: g.AutoRotate}
	}

	for _, cmd := range g.Commands {
		vars := cmd.Variables()
		if len(vars) == 0 {
			rc, err := cmd.Resolve(nil)
			if err != nil {
				f.issues.Errorf(cmd.Position(), "%v", err)
				continue
			}
			current.Commands = append(current.Commands, rc)
			continue
		}

		combos, ok := f.enumerate(vars, g.WhenDefined, cmd.Position())
		if !ok {
			continue
		}
		var expanded []description.RenderDescription
		for _, combo := range combos {
			rc, err := cmd.Resolve(combo.values)
			if err != nil {
				f.issues.Errorf(cmd.Position(), "%v", err)
				expanded = nil
				break
			}
			expanded = append(expanded, description.RenderDescription{
				Conditions: condition.And(g.Conditions, combo.conditions),
				AutoRotate: g.AutoRotate,
				Commands:   []description.RenderCommand{rc},
			})
		}
		if expanded != nil {
			flush()
			out = append(out, expanded...)
		}
	}
	flush()

	if len(out) == 0 && len(g.Commands) == 0 {
		out = append(out, current)
	}
	return out
}
