package description

import (
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
)

// FlagOptions are layout hints a description sets conditionally.
type FlagOptions uint32

const (
	FlagNone       FlagOptions = 0
	HorizontalOnly FlagOptions = 1 << iota
	VerticalOnly
	MiddleMustAlign
	FlipPrimary
	FlipSecondary
	NoSizing
)

var flagNames = map[string]FlagOptions{
	"horizontalonly":  HorizontalOnly,
	"verticalonly":    VerticalOnly,
	"middlemustalign": MiddleMustAlign,
	"flipprimary":     FlipPrimary,
	"flipsecondary":   FlipSecondary,
	"nosizing":        NoSizing,
}

// ParseFlag maps a flag name (case insensitive) onto its value.
func ParseFlag(name string) (FlagOptions, bool) {
	f, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Has reports whether every bit of f is set.
func (o FlagOptions) Has(f FlagOptions) bool {
	return f != 0 && o&f == f
}

func (o FlagOptions) String() string {
	var names []string
	for name, f := range flagNames {
		if o.Has(f) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// FlagRule applies flags when its condition holds.
type FlagRule struct {
	Conditions condition.Tree
	Value      FlagOptions
}

// FlagsFor combines every flag rule whose condition holds for s.
func (d *ComponentDescription) FlagsFor(s condition.State) FlagOptions {
	var out FlagOptions
	for _, r := range d.Flags {
		if r.Conditions.IsMet(s) {
			out |= r.Value
		}
	}
	return out
}
