package description

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// OffsetTerm is one signed addend of an offset: either a constant or a
// reference to a definition variable.
type OffsetTerm struct {
	Value    float64
	Variable string
	Negated  bool
}

// OffsetTemplate is the sum of its terms.
type OffsetTemplate []OffsetTerm

// Offset returns a constant template.
func Offset(v float64) OffsetTemplate {
	if v == 0 {
		return nil
	}
	return OffsetTemplate{{Value: v}}
}

// Variables returns the referenced variable names in order of first use.
func (t OffsetTemplate) Variables() []string {
	var out []string
	for _, term := range t {
		if term.Variable != "" && !slices.Contains(out, term.Variable) {
			out = append(out, term.Variable)
		}
	}
	return out
}

// Resolve sums the terms, substituting vars for variable terms.
func (t OffsetTemplate) Resolve(vars map[string]float64) (float64, error) {
	var sum float64
	for _, term := range t {
		v := term.Value
		if term.Variable != "" {
			x, ok := vars[term.Variable]
			if !ok {
				return 0, fmt.Errorf("description: variable %q has no value", term.Variable)
			}
			v = x
		}
		if term.Negated {
			v = -v
		}
		sum += v
	}
	return sum, nil
}

func (t OffsetTemplate) String() string {
	if len(t) == 0 {
		return "+0"
	}
	var b strings.Builder
	for _, term := range t {
		if term.Negated {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}
		if term.Variable != "" {
			b.WriteString("{" + term.Variable + "}")
		} else {
			b.WriteString(strconv.FormatFloat(term.Value, 'g', -1, 64))
		}
	}
	return b.String()
}

// PointTemplate is a ComponentPoint whose offsets may reference variables.
type PointTemplate struct {
	RelativeToX Anchor
	RelativeToY Anchor
	OffsetX     OffsetTemplate
	OffsetY     OffsetTemplate
}

// Template converts a concrete point into a template.
func Template(p ComponentPoint) PointTemplate {
	return PointTemplate{
		RelativeToX: p.RelativeToX,
		RelativeToY: p.RelativeToY,
		OffsetX:     Offset(p.Offset.X),
		OffsetY:     Offset(p.Offset.Y),
	}
}

// Variables returns the variables referenced on either axis, each once.
func (p PointTemplate) Variables() []string {
	out := p.OffsetX.Variables()
	for _, v := range p.OffsetY.Variables() {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Resolve substitutes vars into both offsets.
func (p PointTemplate) Resolve(vars map[string]float64) (ComponentPoint, error) {
	x, err := p.OffsetX.Resolve(vars)
	if err != nil {
		return ComponentPoint{}, err
	}
	y, err := p.OffsetY.Resolve(vars)
	if err != nil {
		return ComponentPoint{}, err
	}
	return Point(p.RelativeToX, p.RelativeToY, x, y), nil
}

func (p PointTemplate) String() string {
	return fmt.Sprintf("%s%sx %s%sy", p.RelativeToX, p.OffsetX, p.RelativeToY, p.OffsetY)
}
