// Package definitions expands templated component descriptions.
//
// A templated element references definition variables whose values are
// themselves conditional. Flattening emits one concrete element per
// combination of variable values, guarded by the conjunction of the
// enclosing group condition and each chosen value's condition.
package definitions

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
	"github.com/OpenTraceLab/OpenTraceSchem/pkg/diag"
)

// Definitions maps a variable name to its conditional values, in
// declaration order.
type Definitions map[string]description.ConditionalCollection[condition.Value]

// Source is a description whose connections and render groups may still
// reference definition variables.
type Source struct {
	// Description carries everything that is never templated: name,
	// properties, flags and metadata. Its Connections and Render fields
	// are replaced by Flatten.
	Description *description.ComponentDescription
	Definitions Definitions
	Connections []ConnectionGroup
	Render      []RenderGroup
}

// ConnectionGroup is a templated description.ConnectionGroup.
type ConnectionGroup struct {
	Conditions  condition.Tree
	AutoRotate  description.AutoRotate
	WhenDefined []string
	Pos         diag.Position
	Connections []Connection
}

// Connection is a templated description.ConnectionDescription.
type Connection struct {
	Start       description.PointTemplate
	End         description.PointTemplate
	Edge        description.ConnectionEdge
	Name        string
	WhenDefined []string
	Pos         diag.Position
}

// RenderGroup is a templated description.RenderDescription.
type RenderGroup struct {
	Conditions  condition.Tree
	AutoRotate  description.AutoRotate
	WhenDefined []string
	Pos         diag.Position
	Commands    []Command
}

// Command is a render command whose geometry may reference variables.
type Command interface {
	// Variables lists the referenced variables, each once, in order of use
	Variables() []string
	// Resolve substitutes concrete values
	Resolve(vars Values) (description.RenderCommand, error)
	Position() diag.Position
}

// Values holds one chosen value per variable.
type Values map[string]condition.Value

// Number returns the numeric value of a variable.
func (v Values) Number(name string) (float64, error) {
	x, ok := v[name]
	if !ok {
		return 0, fmt.Errorf("variable %q has no value", name)
	}
	n, err := x.ConvertTo(condition.KindNumber)
	if err != nil {
		return 0, fmt.Errorf("variable %q value %s is not numeric", name, x)
	}
	return n.Num(), nil
}

// Numbers converts the values of the given variables for offset resolution.
func (v Values) Numbers(names []string) (map[string]float64, error) {
	out := make(map[string]float64, len(names))
	for _, name := range names {
		n, err := v.Number(name)
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}

var runVariable = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// RunVariables returns the variables a text run references.
func RunVariables(text string) []string {
	var out []string
	for _, m := range runVariable.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(out, m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

func substituteRun(text string, vars Values) string {
	return runVariable.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := vars[name]; ok {
			return v.Text()
		}
		return m
	})
}

func pointVariables(points ...description.PointTemplate) []string {
	var out []string
	for _, p := range points {
		for _, v := range p.Variables() {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}

func offsetVariables(out []string, offsets ...description.OffsetTemplate) []string {
	for _, o := range offsets {
		for _, v := range o.Variables() {
			if !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}
